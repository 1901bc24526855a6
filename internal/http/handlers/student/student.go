// Package student contains the HTTP handlers of the stub student API:
//
//	GET    /search?id=N   200 + student, 404 if absent
//	POST   /save          200 + echoed student, 400 invalid, 409 duplicate
//	DELETE /delete?id=N   200, 404 if absent
//
// Handlers are factories: each receives its storage dependency once at
// route registration and returns the closure the router calls per request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/sinja/internal/storage"
	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/utils/response"
	"github.com/aanand-mishra/sinja/internal/validation"
)

// Routes registers the three endpoints on a new mux and wraps it with
// request-id logging.
func Routes(store storage.Storage, log *slog.Logger) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /search", Search(store, log))
	router.HandleFunc("POST /save", Save(store, log))
	router.HandleFunc("DELETE /delete", Delete(store, log))

	return WithRequestID(router, log)
}

// Search handles GET /search?id=N.
func Search(store storage.Storage, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, log)

		id, err := queryID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		log.Info("searching student", slog.Int64("id", id))

		student, err := store.GetStudentByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("student does not exist", slog.Int64("id", id))
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}
		if err != nil {
			log.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Save handles POST /save with a JSON StudentRecord body.
func Save(store storage.Storage, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, log)

		var student types.StudentRecord
		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validation.Validator().Struct(student); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := store.SaveStudent(student); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
				return
			}
			log.Error("error saving student",
				slog.Int64("id", student.ID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		log.Info("student saved", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Delete handles DELETE /delete?id=N.
func Delete(store storage.Storage, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, log)

		id, err := queryID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := store.DeleteStudentByID(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
				return
			}
			log.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		log.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func queryID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid id: must be an integer")
	}
	return id, nil
}
