package http

import (
	"fmt"
	"net/http"

	"sitio/internal/core"
)

// cvPayloadKeys names the entity-specific payload field of each success
// response, matching what the site's frontend consumes.
var cvPayloadKeys = map[string]struct {
	Created string
	Updated string
}{
	"experience": {Created: "experience", Updated: "updatedExperience"},
	"education":  {Created: "education", Updated: "updatedEducation"},
	"projects":   {Created: "project", Updated: "updatedProject"},
	"skills":     {Created: "skill", Updated: "updatedSkill"},
	"languages":  {Created: "language", Updated: "updatedLanguage"},
}

func entitySpec(r *http.Request) (string, core.EntitySpec, bool) {
	name := r.PathValue("entity")
	spec, ok := core.CVSpecs[name]
	return name, spec, ok
}

func (s *Server) handleCVSnapshot(w http.ResponseWriter, r *http.Request) {
	langParam := r.URL.Query().Get("lang")
	if langParam == "" {
		langParam = "en"
	}
	lang, err := core.ParseLanguage(langParam)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	snapshot, err := s.cv.Snapshot(r.Context(), lang)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleCVCreate(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := entitySpec(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("entidad desconocida '%s'", name)})
		return
	}

	var values map[string]any
	if err := decodeJSON(w, r, &values); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}
	sanitizeValues(values)

	row, err := s.cv.Create(r.Context(), spec, values)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":                  "Registro agregado correctamente.",
		cvPayloadKeys[name].Created: row,
	})
}

func (s *Server) handleCVUpdate(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := entitySpec(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("entidad desconocida '%s'", name)})
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lang, err := pathLanguage(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var patch map[string]any
	if err := decodeJSON(w, r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}
	sanitizeValues(patch)

	row, err := s.cv.Update(r.Context(), spec, id, lang, patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":                  fmt.Sprintf("Registro %d actualizado en %s", id, lang),
		cvPayloadKeys[name].Updated: row,
	})
}

func (s *Server) handleCVDelete(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := entitySpec(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("entidad desconocida '%s'", name)})
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.cv.Delete(r.Context(), spec, id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Registro con ID %d eliminado correctamente.", id))
}

func (s *Server) handleContactUpdate(w http.ResponseWriter, r *http.Request) {
	lang, err := pathLanguage(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var fields map[string]string
	if err := decodeJSON(w, r, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}
	for k, v := range fields {
		fields[k] = sanitizeInput(v)
	}

	if err := s.cv.UpdateContact(r.Context(), lang, fields); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Datos de contacto actualizados en el idioma %s", lang))
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	langParam := r.URL.Query().Get("lang")
	if langParam == "" {
		langParam = "en"
	}
	lang, err := core.ParseLanguage(langParam)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	text, err := s.cv.Profile(r.Context(), lang)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profile": text})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	lang, err := pathLanguage(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var body struct {
		Description string `json:"profile_description"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	if err := s.cv.UpdateProfile(r.Context(), lang, sanitizeInput(body.Description)); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Perfil actualizado en el idioma %s", lang))
}

// sanitizeValues strips control characters from every string value in place.
func sanitizeValues(values map[string]any) {
	for k, v := range values {
		if s, ok := v.(string); ok {
			values[k] = sanitizeInput(s)
		}
	}
}
