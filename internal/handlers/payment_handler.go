package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"primaries-backend/internal/middleware"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"
	"primaries-backend/pkg/validator"
)

// PaymentHandler handles payment requests, the gateway webhook and the
// image-proof channel
type PaymentHandler struct {
	paymentService *service.PaymentService
	profileService *service.ProfileService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService, profileService *service.ProfileService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		profileService: profileService,
	}
}

// RequestVotingPayment opens a payment for the requested ballot weight
// @Summary Request a voting payment
// @Description Opens (or returns the pending) gateway payment purchasing the given ballot weight
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param count query int true "Ballot weight (1-5)"
// @Success 200 {object} models.Payment
// @Failure 400 {object} map[string]string "Unknown tier"
// @Router /pay/voting [post]
func (h *PaymentHandler) RequestVotingPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.profileService.GetVoterProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		return
	}

	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "count must be an integer")
		return
	}

	payment, err := h.paymentService.RequestVotingPayment(profile.ID, count)
	if err != nil {
		h.respondPaymentError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, payment)
}

// RequestEvaluationPayment opens the flat-fee evaluation payment
// @Summary Request an evaluation payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Payment
// @Router /pay/evaluation [post]
func (h *PaymentHandler) RequestEvaluationPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.profileService.GetVoterProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		return
	}

	payment, err := h.paymentService.RequestEvaluationPayment(profile.ID)
	if err != nil {
		h.respondPaymentError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) respondPaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentInactive):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmailNotVerified),
		errors.Is(err, service.ErrUnknownAmount):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrVoterNotFound):
		respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
	}
}

// ManualConfirmRequest carries the ballot weight an administrator grants
type ManualConfirmRequest struct {
	Votes int `json:"votes" validate:"required,min=1"`
}

// ConfirmManual marks a voter as paid after an image-proof review
// @Summary Manually confirm a payment
// @Description Grants payment eligibility to a voter after an administrator reviewed the uploaded receipt
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Voter profile ID"
// @Param request body ManualConfirmRequest true "Granted ballot weight"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/voters/{id}/confirm-payment [post]
func (h *PaymentHandler) ConfirmManual(w http.ResponseWriter, r *http.Request) {
	voterID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid voter ID")
		return
	}

	var req ManualConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.paymentService.ConfirmManual(uint(voterID), req.Votes); err != nil {
		h.respondPaymentError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Payment confirmed"})
}

// GatewayCallback handles the payment gateway's webhook. The gateway sends
// form-encoded fields and expects a bare text body: "OK" on success, an
// error description otherwise.
// @Summary Payment gateway webhook
// @Description Precheck and confirmation callbacks from the payment gateway
// @Tags Payments
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param EDP_PRECHECK formData string false "YES for a precheck probe"
// @Param EDP_BILL_NO formData string true "Bill number"
// @Param EDP_AMOUNT formData string true "Amount"
// @Param EDP_REC_ACCOUNT formData string true "Receiver account"
// @Success 200 {string} string "OK"
// @Router /pay/gateway [post]
func (h *PaymentHandler) GatewayCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		gatewayRespond(w, http.StatusBadRequest, "cannot parse form")
		return
	}

	cb := &service.GatewayCallback{
		Precheck:     r.PostFormValue("EDP_PRECHECK") == "YES",
		BillNo:       r.PostFormValue("EDP_BILL_NO"),
		Amount:       r.PostFormValue("EDP_AMOUNT"),
		RecAccount:   r.PostFormValue("EDP_REC_ACCOUNT"),
		PayerAccount: r.PostFormValue("EDP_PAYER_ACCOUNT"),
		TransID:      r.PostFormValue("EDP_TRANS_ID"),
		TransDate:    r.PostFormValue("EDP_TRANS_DATE"),
		Checksum:     r.PostFormValue("EDP_CHECKSUM"),
	}

	if cb.BillNo == "" || cb.Amount == "" || cb.RecAccount == "" {
		gatewayRespond(w, http.StatusBadRequest, "missing required fields")
		return
	}

	var err error
	if cb.Precheck {
		err = h.paymentService.Precheck(cb)
	} else {
		err = h.paymentService.Confirm(cb)
	}

	if err != nil {
		slog.Warn("Gateway callback rejected",
			"bill_no", cb.BillNo,
			"precheck", cb.Precheck,
			"ip", getIP(r),
			"error", err,
		)
		gatewayRespond(w, http.StatusBadRequest, err.Error())
		return
	}

	gatewayRespond(w, http.StatusOK, GatewayResponseOK)
}

func gatewayRespond(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

// ImageProofRequest represents an uploaded payment receipt
type ImageProofRequest struct {
	Picture string `json:"picture" validate:"required"`
}

// SubmitImageProof records a payment receipt for manual confirmation
// @Summary Upload a payment receipt
// @Description Records a receipt image for manual review and notifies the administrator
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImageProofRequest true "Receipt image URL"
// @Success 201 {object} models.PaymentImage
// @Router /pay/image [post]
func (h *PaymentHandler) SubmitImageProof(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.profileService.GetVoterProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		return
	}

	var req ImageProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Picture == "" {
		respondWithError(w, http.StatusBadRequest, "picture is required")
		return
	}

	image, err := h.paymentService.SubmitImageProof(profile.ID, req.Picture)
	if err != nil {
		h.respondPaymentError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, image)
}
