package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/server/recordrepo"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/rs/zerolog/log"
)

// registerCollection mounts JSON CRUD for one collection. Any authenticated role may read,
// only admins may write.
func registerCollection[T any](s *Server, path string, repo recordrepo.Repo[T]) {
	read := s.APIMiddleware(s.RequireAuth())
	write := s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))
	list := path + "{$}"
	item := path + "{id}/"

	s.RegisterRouteHandler("GET "+list, ChainMiddleware(listRecords(repo), read...))
	s.RegisterRouteHandler("POST "+list, ChainMiddleware(createRecord(repo), write...))
	s.RegisterRouteHandler("GET "+item, ChainMiddleware(getRecord(repo), read...))
	s.RegisterRouteHandler("PUT "+item, ChainMiddleware(replaceRecord(repo), write...))
	s.RegisterRouteHandler("PATCH "+item, ChainMiddleware(patchRecord(repo), write...))
	s.RegisterRouteHandler("DELETE "+item, ChainMiddleware(deleteRecord(repo), write...))
}

func listRecords[T any](repo recordrepo.Repo[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := repo.List(nil)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func createRecord[T any](repo recordrepo.Repo[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record T
		if !decodeJSON(w, r, &record) {
			return
		}
		created, err := repo.Insert(record)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func getRecord[T any](repo recordrepo.Repo[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		record, err := repo.Get(id)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func replaceRecord[T any](repo recordrepo.Repo[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var record T
		if !decodeJSON(w, r, &record) {
			return
		}
		updated, err := repo.Replace(id, record)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// patchRecord overlays the given fields on the stored record
func patchRecord[T any](repo recordrepo.Repo[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var fields map[string]json.RawMessage
		if !decodeJSON(w, r, &fields) {
			return
		}
		current, err := repo.Get(id)
		if err != nil {
			writeRepoError(w, err)
			return
		}

		merged, err := mergeFields(current, fields)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error(), "invalid")
			return
		}
		updated, err := repo.Replace(id, merged)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteRecord[T any](repo recordrepo.Repo[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := repo.Delete(id); err != nil {
			writeRepoError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func mergeFields[T any](current T, fields map[string]json.RawMessage) (T, error) {
	var merged T
	raw, err := json.Marshal(current)
	if err != nil {
		return merged, err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return merged, err
	}
	for k, v := range fields {
		doc[k] = v
	}
	raw, err = json.Marshal(doc)
	if err != nil {
		return merged, err
	}
	err = json.Unmarshal(raw, &merged)
	return merged, err
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusNotFound, "Not found.", "not_found")
		return 0, false
	}
	return id, true
}

func writeRepoError(w http.ResponseWriter, err error) {
	if autherrors.Is(err, autherrors.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Not found.", "not_found")
		return
	}
	log.Error().Err(err).Msg("record repo failure")
	writeJSONError(w, http.StatusInternalServerError, "Internal server error.", "")
}
