package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"Agora/internal/api/middleware"
	"Agora/internal/core/feeds"
	"Agora/internal/core/media"
)

var (
	// ErrBadRequest is returned for malformed request bodies and parameters
	ErrBadRequest = errors.New("malformed request")

	// ErrBodyTooLarge is returned when a body exceeds the upload limit
	ErrBodyTooLarge = errors.New("request body too large")
)

// ParseID reads a positive integer URL parameter
func ParseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}
	return id, nil
}

// DecodeJSON decodes a JSON body into dst, rejecting unknown trailing data
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: invalid JSON body", ErrBadRequest)
	}
	return nil
}

// Form is a write request read from either JSON or multipart/form-data.
// Values hold the string fields present in the request; File holds the
// uploaded file of the requested field, if any.
type Form struct {
	Values map[string]string
	File   *media.Upload
}

// Get returns a field and whether it was present
func (f *Form) Get(key string) (string, bool) {
	v, ok := f.Values[key]
	return v, ok
}

// StringPtr returns a pointer to a present field, nil otherwise
func (f *Form) StringPtr(key string) *string {
	v, ok := f.Values[key]
	if !ok {
		return nil
	}
	return &v
}

// ReadForm reads a JSON object or a multipart form with an optional file under fileField.
// JSON null values are treated as absent. maxBytes bounds the whole body.
func ReadForm(w http.ResponseWriter, r *http.Request, fileField string, maxBytes int64) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	form := &Form{Values: make(map[string]string)}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, ErrBodyTooLarge
			}
			return nil, fmt.Errorf("%w: invalid multipart body", ErrBadRequest)
		}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				form.Values[key] = values[0]
			}
		}
		if fileField == "" {
			return form, nil
		}
		file, header, err := r.FormFile(fileField)
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s file", ErrBadRequest, fileField)
		}
		defer func() { _ = file.Close() }()
		data, err := media.ReadAll(file, maxBytes)
		if err != nil {
			return nil, err
		}
		form.File = &media.Upload{Filename: header.Filename, Data: data}
		return form, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: invalid form body", ErrBadRequest)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				form.Values[key] = values[0]
			}
		}
		return form, nil

	default:
		var raw map[string]any
		if err := DecodeJSON(r, &raw); err != nil {
			return nil, err
		}
		for key, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				form.Values[key] = val
			default:
				form.Values[key] = fmt.Sprint(val)
			}
		}
		return form, nil
	}
}

// Renderer builds request-scoped presenters so every URL in a response is absolute
type Renderer struct {
	mediaURL   func(key string) string
	publicURL  *url.URL
	trustProxy bool
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithPublicURL pins the scheme and host of every generated link, ignoring
// the request's Host and forwarding headers
func WithPublicURL(u *url.URL) RendererOption {
	return func(rr *Renderer) {
		if u != nil {
			rr.publicURL = &url.URL{Scheme: u.Scheme, Host: u.Host}
		}
	}
}

// WithTrustedProxy honours X-Forwarded-Proto. Only set it behind a proxy
// that overwrites the header.
func WithTrustedProxy() RendererOption {
	return func(rr *Renderer) { rr.trustProxy = true }
}

// NewRenderer creates a renderer. mediaURL maps a media key to its (possibly relative) public URL.
func NewRenderer(mediaURL func(key string) string, opts ...RendererOption) *Renderer {
	rr := &Renderer{mediaURL: mediaURL}
	for _, opt := range opts {
		opt(rr)
	}
	return rr
}

// BaseURL returns scheme://host used for links in responses to r
func (rr *Renderer) BaseURL(r *http.Request) *url.URL {
	if rr.publicURL != nil {
		u := *rr.publicURL
		return &u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if rr.trustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			first, _, _ := strings.Cut(proto, ",")
			if p := strings.ToLower(strings.TrimSpace(first)); p == "http" || p == "https" {
				scheme = p
			}
		}
	}
	return &url.URL{Scheme: scheme, Host: r.Host}
}

// RequestURL returns the absolute URL of the request, used for pagination links
func (rr *Renderer) RequestURL(r *http.Request) *url.URL {
	u := rr.BaseURL(r)
	u.Path = r.URL.Path
	u.RawPath = r.URL.RawPath
	u.RawQuery = r.URL.RawQuery
	return u
}

// For returns a presenter rooted at the public base URL
func (rr *Renderer) For(r *http.Request) *feeds.Presenter {
	base := rr.BaseURL(r).String()
	return feeds.NewPresenter(base+"/api/", func(key string) string {
		u := rr.mediaURL(key)
		if strings.HasPrefix(u, "/") {
			return base + u
		}
		return u
	})
}

// RequireUser returns the authenticated caller or writes a 401
func RequireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication credentials were not provided.")
		return 0, false
	}
	return userID, true
}
