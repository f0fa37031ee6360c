package handler

import (
	"net/http"
	"net/url"
	"strings"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/delivery/http/middleware"
	"hospital-cms-portal/internal/delivery/http/view"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/pkg/response"
	"hospital-cms-portal/pkg/validator"

	"github.com/sirupsen/logrus"
)

const (
	tokenMissingMessage = "No auth token found. Please log in again."
	noticeTarget        = "#notice"
)

// Base holds what every page handler shares: rendering, the session store for
// flashes, and request validation.
type Base struct {
	renderer  *view.Renderer
	sessions  *service.SessionStore
	validator *validator.CustomValidator
	log       *logrus.Logger
}

func NewBase(renderer *view.Renderer, sessions *service.SessionStore, validator *validator.CustomValidator, log *logrus.Logger) *Base {
	return &Base{
		renderer:  renderer,
		sessions:  sessions,
		validator: validator,
		log:       log,
	}
}

// session always returns a session; the router puts one on every request.
func (b *Base) session(r *http.Request) *entity.Session {
	if session, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return session
	}
	return &entity.Session{}
}

// page renders a full page. A notice passed in wins over a pending flash, but the
// flash is consumed either way.
func (b *Base) page(w http.ResponseWriter, r *http.Request, status int, name, title string, body interface{}, notice *dto.Notice) {
	session := b.session(r)
	flash := dto.DecodeFlash(b.sessions.PopFlash(r.Context(), session))
	if notice == nil {
		notice = flash
	}

	b.renderer.Page(w, status, name, dto.Page{
		Title:  title,
		Header: converter.SessionToHeader(session, r.URL.Path),
		Notice: notice,
		Body:   body,
	})
}

// redirect carries an optional notice across the redirect as the session flash.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, location string, notice *dto.Notice) {
	if notice != nil {
		b.sessions.SetFlash(r.Context(), b.session(r), dto.EncodeFlash(notice))
	}
	response.Redirect(w, r, location)
}

// fragmentNotice swaps a notice into the page banner instead of the element that
// issued the htmx request. The status stays 200 so htmx performs the swap.
func (b *Base) fragmentNotice(w http.ResponseWriter, notice *dto.Notice) {
	response.Retarget(w, noticeTarget)
	b.renderer.Fragment(w, http.StatusOK, "notice", notice)
}

func (b *Base) sessionExpired(w http.ResponseWriter, r *http.Request) {
	b.redirect(w, r, "/", dto.ErrorNotice(tokenMissingMessage))
}

func (b *Base) validationNotice(err error) *dto.Notice {
	return dto.ErrorNotice(b.validator.Summary(err))
}

// failureNotice prefixes the backend's own message when there is one.
func failureNotice(prefix string, err error) *dto.Notice {
	return dto.ErrorNotice(prefix + ": " + entity.ErrorMessage(err))
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// formValues returns every non-empty value submitted under key, in order.
func formValues(r *http.Request, key string) []string {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	var values []string
	for _, v := range r.Form[key] {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func withQuery(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
