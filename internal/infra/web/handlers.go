package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/infra/logging"
	"translator-booking/internal/infra/metrics"
	"translator-booking/internal/usecase"
)

// jobView is the wire projection of a job.
type jobView struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	CustomerID      string     `json:"customer_id"`
	TranslatorID    *string    `json:"translator_id,omitempty"`
	FromLanguage    string     `json:"from_language"`
	ToLanguage      string     `json:"to_language"`
	DueAt           time.Time  `json:"due_at"`
	Duration        int        `json:"duration"`
	ContactEmail    *string    `json:"contact_email,omitempty"`
	Distance        *float64   `json:"distance,omitempty"`
	ElapsedTime     *float64   `json:"elapsed_time,omitempty"`
	AdminComments   *string    `json:"admin_comments,omitempty"`
	Flagged         bool       `json:"flagged"`
	ManuallyHandled bool       `json:"manually_handled"`
	EditedByAdmin   bool       `json:"by_admin"`
	SessionTime     *string    `json:"session_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func toView(j *model.Job) jobView {
	return jobView{
		ID:              j.ID,
		Status:          string(j.Status),
		CustomerID:      j.CustomerID,
		TranslatorID:    j.AssignedTranslatorID,
		FromLanguage:    j.FromLanguage,
		ToLanguage:      j.ToLanguage,
		DueAt:           j.DueAt,
		Duration:        j.Duration,
		ContactEmail:    j.ContactEmail,
		Distance:        j.Distance,
		ElapsedTime:     j.ElapsedTime,
		AdminComments:   j.AdminComments,
		Flagged:         j.Flagged,
		ManuallyHandled: j.ManuallyHandled,
		EditedByAdmin:   j.EditedByAdmin,
		SessionTime:     j.SessionTime,
		CreatedAt:       j.CreatedAt,
		CompletedAt:     j.CompletedAt,
	}
}

func toViews(jobs []*model.Job) []jobView {
	out := make([]jobView, len(jobs))
	for i, j := range jobs {
		out[i] = toView(j)
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// writeError maps domain errors to distinguishable client codes. Anything
// unexpected is logged with the originating operation and reduced to a
// generic server error; the cause never reaches the caller.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotEligible):
		writeMessage(w, http.StatusUnprocessableEntity, "not eligible for this job")
	case errors.Is(err, domain.ErrAlreadyAssigned):
		writeMessage(w, http.StatusConflict, "job already taken")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoAssignee):
		writeMessage(w, http.StatusUnprocessableEntity, "job has no assigned translator")
	default:
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Str("operation", op).Msg("operation failed")
		metrics.IncTransition(op, "error")
		writeMessage(w, http.StatusInternalServerError, op+" failed")
	}
}

func (s *Server) caller(w http.ResponseWriter, r *http.Request) (model.Caller, bool) {
	c, ok := CallerFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthenticated")
	}
	return c, ok
}

// scoped stamps the caller and job onto the request context so failure logs
// carry user_id and job_id alongside the trace id.
func scoped(r *http.Request, caller model.Caller, jobID string) context.Context {
	ctx := logging.WithUserID(r.Context(), caller.ID)
	if jobID != "" {
		ctx = logging.WithJobID(ctx, jobID)
	}
	return ctx
}

// ----- listings -----

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	jobs, err := s.bookings.GetAll(r.Context(), caller, r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, r, "index", err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(jobs))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusOK, []jobView{})
		return
	}
	jobs, err := s.bookings.GetUsersJobsHistory(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(jobs))
}

func (s *Server) handlePotentialJobs(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	jobs, err := s.bookings.GetPotentialJobs(r.Context(), caller)
	if err != nil {
		s.writeError(w, r, "potential_jobs", err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(jobs))
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	job, err := s.bookings.Show(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "show", err)
		return
	}
	writeJSON(w, http.StatusOK, toView(job))
}

// ----- lifecycle -----

type storeJobRequest struct {
	FromLanguage string    `json:"from_language"`
	ToLanguage   string    `json:"to_language"`
	DueAt        time.Time `json:"due_at"`
	Duration     int       `json:"duration"`
}

func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req storeJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	r = r.WithContext(scoped(r, caller, ""))
	job, err := s.bookings.Store(r.Context(), caller, usecase.StoreJobInput{
		FromLanguage: req.FromLanguage,
		ToLanguage:   req.ToLanguage,
		DueAt:        req.DueAt,
		Duration:     req.Duration,
	})
	if err != nil {
		s.writeError(w, r, "store", err)
		return
	}
	metrics.IncTransition("store", "ok")
	writeJSON(w, http.StatusCreated, toView(job))
}

type acceptJobRequest struct {
	JobID string `json:"job_id"`
}

func (s *Server) handleAcceptJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req acceptJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	r = r.WithContext(scoped(r, caller, req.JobID))
	job, err := s.bookings.AcceptJob(r.Context(), caller, usecase.AcceptJobInput{JobID: req.JobID})
	if err != nil {
		s.writeError(w, r, "accept_job", err)
		return
	}
	metrics.IncTransition("accept", "ok")
	writeJSON(w, http.StatusOK, toView(job))
}

// handleAcceptJobWithID is the legacy bare-id entry point. It shares the
// claim path with handleAcceptJob.
func (s *Server) handleAcceptJobWithID(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	jobID := r.URL.Query().Get("job_id")
	r = r.WithContext(scoped(r, caller, jobID))
	job, err := s.bookings.AcceptJobWithID(r.Context(), caller, jobID)
	if err != nil {
		s.writeError(w, r, "accept_job_with_id", err)
		return
	}
	metrics.IncTransition("accept", "ok")
	writeJSON(w, http.StatusOK, toView(job))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "start", s.bookings.StartJob)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "cancel", s.bookings.CancelJob)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "end", s.bookings.EndJob)
}

func (s *Server) handleCustomerNotCall(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "customer_not_call", s.bookings.CustomerNotCall)
}

func (s *Server) handleReopen(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "reopen", s.bookings.Reopen)
}

func (s *Server) transition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(ctx context.Context, caller model.Caller, jobID string) (*model.Job, error),
) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	jobID := chi.URLParam(r, "id")
	r = r.WithContext(scoped(r, caller, jobID))
	job, err := fn(r.Context(), caller, jobID)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	metrics.IncTransition(op, "ok")
	writeJSON(w, http.StatusOK, toView(job))
}

type jobEmailRequest struct {
	UserEmail string `json:"user_email"`
}

// handleJobEmail changes the address messages about a job go to.
func (s *Server) handleJobEmail(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req jobEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	jobID := chi.URLParam(r, "id")
	r = r.WithContext(scoped(r, caller, jobID))
	job, err := s.bookings.UpdateJobEmail(r.Context(), caller, jobID, usecase.JobEmailInput{Email: req.UserEmail})
	if err != nil {
		s.writeError(w, r, "job_email", err)
		return
	}
	metrics.IncTransition("job_email", "ok")
	writeJSON(w, http.StatusOK, toView(job))
}

// ----- admin update / telemetry -----

type updateJobRequest struct {
	Status          *string `json:"status"`
	AdminComments   *string `json:"admin_comments"`
	Flagged         string  `json:"flagged"`
	SessionTime     *string `json:"session_time"`
	ManuallyHandled string  `json:"manually_handled"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := usecase.UpdateJobInput{}
	if req.Status != nil {
		st := model.JobStatus(*req.Status)
		in.Status = &st
	}
	in.Override.AdminComments = req.AdminComments
	in.Override.SessionTime = req.SessionTime

	var bad bool
	in.Override.Flagged, bad = triState(w, req.Flagged, "flagged")
	if bad {
		return
	}
	in.Override.ManuallyHandled, bad = triState(w, req.ManuallyHandled, "manually_handled")
	if bad {
		return
	}

	r = r.WithContext(scoped(r, caller, chi.URLParam(r, "id")))
	job, err := s.bookings.UpdateJob(r.Context(), caller, chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, "update", err)
		return
	}
	metrics.IncTransition("update", "ok")
	writeJSON(w, http.StatusOK, toView(job))
}

type distanceFeedRequest struct {
	JobID           string   `json:"jobid"`
	Distance        *float64 `json:"distance"`
	Time            *float64 `json:"time"`
	AdminComment    *string  `json:"admincomment"`
	SessionTime     *string  `json:"session_time"`
	Flagged         string   `json:"flagged"`
	ManuallyHandled string   `json:"manually_handled"`
	ByAdmin         string   `json:"by_admin"`
}

func (s *Server) handleDistanceFeed(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !caller.Role.Privileged() {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return
	}
	var req distanceFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := usecase.DistanceFeedInput{
		JobID:    req.JobID,
		Distance: req.Distance,
		Time:     req.Time,
	}
	in.Override.AdminComments = req.AdminComment
	in.Override.SessionTime = req.SessionTime

	var bad bool
	in.Override.Flagged, bad = triState(w, req.Flagged, "flagged")
	if bad {
		return
	}
	in.Override.ManuallyHandled, bad = triState(w, req.ManuallyHandled, "manually_handled")
	if bad {
		return
	}
	in.Override.EditedByAdmin, bad = triState(w, req.ByAdmin, "by_admin")
	if bad {
		return
	}
	// A flagged job needs a reason attached.
	if in.Override.Flagged != nil && *in.Override.Flagged &&
		(in.Override.AdminComments == nil || *in.Override.AdminComments == "") {
		writeMessage(w, http.StatusBadRequest, "flagged jobs require an admin comment")
		return
	}

	r = r.WithContext(scoped(r, caller, in.JobID))
	if err := s.telemetry.DistanceFeed(r.Context(), caller, in); err != nil {
		s.writeError(w, r, "distance_feed", err)
		return
	}
	writeMessage(w, http.StatusOK, "Record updated!")
}

// triState normalizes the legacy "true"/"yes"/"no" string flags, writing a
// 400 when the value is unrecognizable.
func triState(w http.ResponseWriter, raw, field string) (*bool, bool) {
	v, ok := model.ParseTriState(raw)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid value for "+field)
		return nil, true
	}
	return v, false
}

// ----- notifications -----

func (s *Server) handleResendNotifications(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !caller.Role.Privileged() {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return
	}
	r = r.WithContext(scoped(r, caller, chi.URLParam(r, "id")))
	if _, err := s.notif.ResendNotification(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, "resend_notifications", err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification sent!")
}

func (s *Server) handleResendSMS(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !caller.Role.Privileged() {
		writeMessage(w, http.StatusForbidden, "forbidden")
		return
	}
	r = r.WithContext(scoped(r, caller, chi.URLParam(r, "id")))
	if err := s.notif.ResendSMS(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, "resend_sms", err)
		return
	}
	writeMessage(w, http.StatusOK, "SMS sent!")
}
