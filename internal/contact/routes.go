package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds a submission body.
const maxBodyBytes = 64 << 10

// RegisterRoutes mounts the contact endpoint at /api/contact.
func RegisterRoutes(r chi.Router, relay *Relay) {
	r.Post("/api/contact", handleSubmit(relay))
}

type response struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func handleSubmit(relay *Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		s, err := ParseRequest(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
			return
		}

		switch err := relay.Submit(r.Context(), s); {
		case errors.Is(err, ErrInvalid):
			writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		case err != nil:
			writeJSON(w, http.StatusBadGateway, response{Message: "Something went wrong. Please try again."})
		default:
			writeJSON(w, http.StatusOK, response{Message: "Your message was sent successfully.", ID: s.ID})
		}
	}
}

// ParseRequest reads a submission from a JSON or form-encoded body. The
// name comes from "full-name", falling back to "name".
func ParseRequest(r *http.Request) (*Submission, error) {
	fields := map[string]string{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid request body")
		}
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case nil:
			default:
				fields[k] = fmt.Sprint(val)
			}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body")
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				fields[k] = vs[0]
			}
		}
	}

	s := &Submission{Email: fields["email"]}
	s.Name = fields["full-name"]
	if s.Name == "" {
		s.Name = fields["name"]
	}
	delete(fields, "full-name")
	delete(fields, "name")
	delete(fields, "email")
	if len(fields) > 0 {
		s.Fields = fields
	}
	return s, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
