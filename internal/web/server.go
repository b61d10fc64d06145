package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
	"github.com/example/tablebook/internal/form"
)

//go:embed templates/*.html static/*
var fs embed.FS

type Server struct {
	Sessions *SessionManager
	// Backend answers the JSON API; pages go through the session store, which wraps the same backend.
	Backend booking.Backend

	BaseURL string
}

const msgInFlight = "Your reservation is already being processed."

type option struct {
	Value    string
	Label    string
	Selected bool
}

type tmplData struct {
	Title     string
	Flash     string
	Retryable bool

	Values    form.Values
	Errors    map[string]string
	MinDate   string
	Times     []option
	Guests    []option
	Occasions []option
	Booked    int

	Booking       booking.Record
	GuestsLabel   string
	OccasionLabel string
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/static/", http.FileServer(http.FS(fs)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/booking", s.handleBooking)
	mux.HandleFunc("/booking/field", s.handleField)
	mux.HandleFunc("/confirmed-booking", s.handleConfirmed)

	mux.HandleFunc("/api/availability", s.handleAPIAvailability)
	mux.HandleFunc("/api/bookings", s.handleAPIBookings)

	return logging(mux)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "templates/home.html", tmplData{Title: "Home"})
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(w, r)
	if err != nil {
		log.Printf("session err: %v", err)
		http.Error(w, "reservation service unavailable", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, http.StatusOK, "templates/booking.html", s.bookingData(sess, ""))
		return
	case http.MethodPost:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := sess.Form()
	current := f.Values()
	for _, field := range form.Fields {
		vals, ok := r.PostForm[string(field)]
		if !ok || len(vals) == 0 || vals[0] == current.Get(field) {
			continue
		}
		if err := f.ApplyFieldEdit(r.Context(), field, vals[0]); err != nil {
			s.renderEditError(w, sess, err)
			return
		}
	}

	if r.PostForm.Get("intent") == "refresh" {
		s.render(w, http.StatusOK, "templates/booking.html", s.bookingData(sess, ""))
		return
	}

	res, err := f.Submit(r.Context())
	switch {
	case errors.Is(err, form.ErrSubmitting), errors.Is(err, form.ErrCompleted):
		s.render(w, http.StatusConflict, "templates/booking.html", s.bookingData(sess, msgInFlight))
		return
	case err != nil:
		log.Printf("submit booking err: %v", err)
	}

	switch res.State {
	case form.Succeeded:
		if err := s.Sessions.SetConfirmation(w, res.Record); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.Sessions.ResetForm(sess)
		http.Redirect(w, r, "/confirmed-booking", http.StatusSeeOther)
	case form.Failed:
		data := s.bookingData(sess, res.Notice)
		data.Retryable = res.Retryable
		status := http.StatusConflict
		if res.Retryable {
			status = http.StatusServiceUnavailable
		} else if err != nil {
			status = http.StatusBadGateway
		}
		s.render(w, status, "templates/booking.html", data)
	default:
		s.render(w, http.StatusUnprocessableEntity, "templates/booking.html", s.bookingData(sess, ""))
	}
}

func (s *Server) renderEditError(w http.ResponseWriter, sess *Session, err error) {
	switch {
	case errors.Is(err, form.ErrSubmitting), errors.Is(err, form.ErrCompleted):
		s.render(w, http.StatusConflict, "templates/booking.html", s.bookingData(sess, msgInFlight))
	case booking.IsRetryable(err):
		data := s.bookingData(sess, form.NoticeNetwork)
		data.Retryable = true
		s.render(w, http.StatusServiceUnavailable, "templates/booking.html", data)
	default:
		log.Printf("apply field edit err: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type fieldEdit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type fieldResponse struct {
	SelectedDate string            `json:"selectedDate"`
	Times        []string          `json:"times"`
	Errors       map[string]string `json:"errors"`
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, err := s.Sessions.Get(w, r)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	var in fieldEdit
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	err = sess.Form().ApplyFieldEdit(r.Context(), form.Field(in.Field), in.Value)
	switch {
	case err == nil:
	case errors.Is(err, form.ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, form.ErrSubmitting):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case booking.IsRetryable(err):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": form.NoticeNetwork})
		return
	default:
		log.Printf("apply field edit err: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snap := sess.Store.Snapshot()
	writeJSON(w, http.StatusOK, fieldResponse{
		SelectedDate: snap.Availability.SelectedDate.Format(booking.DateLayout),
		Times:        nonNil(snap.Availability.AvailableTimes),
		Errors:       errorMap(sess.Form().Errors()),
	})
}

func (s *Server) handleConfirmed(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.Sessions.PopConfirmation(w, r)
	if !ok {
		http.Redirect(w, r, "/booking", http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, "templates/confirmed.html", tmplData{
		Title:         "Reservation Confirmed",
		Booking:       rec,
		GuestsLabel:   booking.GuestLabel(rec.Guests),
		OccasionLabel: occasionLabel(rec.Occasion),
	})
}

func (s *Server) handleAPIAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	d, err := booking.ParseDate(r.URL.Query().Get("date"), s.Sessions.Location())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	times, err := s.Backend.ResolveAvailability(r.Context(), d)
	if err != nil {
		log.Printf("api availability err: %v", err)
		writeJSON(w, backendStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  d.Format(booking.DateLayout),
		"times": nonNil(times),
	})
}

func (s *Server) handleAPIBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var rec booking.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if errs := form.Validate(form.ValuesFromRecord(rec)); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errorMap(errs)})
		return
	}

	ok, err := s.Backend.SubmitBooking(r.Context(), rec)
	switch {
	case errors.Is(err, booking.ErrRejected):
		ok, err = false, nil
	case err != nil:
		log.Printf("api booking err: %v", err)
		writeJSON(w, backendStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]bool{"accepted": false})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"accepted": true})
}

func (s *Server) bookingData(sess *Session, flash string) tmplData {
	f := sess.Form()
	v := f.Values()
	if flash == "" {
		flash = f.Notice()
	}
	snap := sess.Store.Snapshot()

	data := tmplData{
		Title:   "Book a Table",
		Flash:   flash,
		Values:  v,
		Errors:  errorMap(f.Errors()),
		MinDate: s.Sessions.Today().Format(booking.DateLayout),
		Booked:  len(snap.Bookings),
	}
	for _, t := range snap.Availability.AvailableTimes {
		data.Times = append(data.Times, option{Value: t, Label: t, Selected: t == v.Time})
	}
	for _, n := range booking.GuestOptions {
		val := strconv.Itoa(n)
		data.Guests = append(data.Guests, option{Value: val, Label: booking.GuestLabel(n), Selected: val == v.Guests})
	}
	for _, o := range booking.Occasions {
		data.Occasions = append(data.Occasions, option{Value: string(o), Label: o.Label(), Selected: string(o) == v.Occasion})
	}
	return data
}

func occasionLabel(o booking.Occasion) string {
	if o == booking.OccasionNone || !o.Known() {
		return ""
	}
	return o.Label()
}

func errorMap(errs form.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for f, msg := range errs {
		out[string(f)] = msg
	}
	return out
}

func nonNil(times []string) []string {
	if times == nil {
		return []string{}
	}
	return times
}

func backendStatus(err error) int {
	if booking.IsRetryable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data tmplData) {
	t, err := template.ParseFS(fs,
		"templates/base.html",
		name,
	)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
