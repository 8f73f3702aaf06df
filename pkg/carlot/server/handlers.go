package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/apperr"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/store"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100

	maxBodyBytes = 1 << 20
)

type createCarResponse struct {
	Message string  `json:"message"`
	NewCar  dal.Car `json:"newCar"`
}

type updateCarResponse struct {
	Message    string   `json:"message"`
	UpdatedCar *dal.Car `json:"updatedCar"`
}

type deleteCarResponse struct {
	Message    string   `json:"message"`
	DeletedCar *dal.Car `json:"deletedCar"`
}

// CreateCar defines a POST handler that validates and stores a new car
func (h *httpServer) CreateCar(w http.ResponseWriter, r *http.Request) {
	car, err := decodeCar(w, r)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	if err := dal.Validate(car); err != nil {
		h.reportError(w, r, err)
		return
	}

	newCar, err := h.repo.Create(r.Context(), car.Listing())
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCarResponse{
		Message: "Create Car Successfully",
		NewCar:  newCar,
	})
}

// GetCars defines a GET handler returning one page of cars that are not deleted
func (h *httpServer) GetCars(w http.ResponseWriter, r *http.Request) {
	vars := r.URL.Query()

	page, err := parsePositiveInt(vars, "page", defaultPage)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	limit, err := parsePositiveInt(vars, "limit", defaultLimit)
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter, err := parseFilter(vars)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	all, err := h.repo.FindAll(r.Context(), filter)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	cars := paginate(store.Active(all), page, limit)

	writeJSON(w, http.StatusOK, dal.CarResponse{
		Message: "Get Car List Successfully!",
		Cars:    cars,
		Page:    page,
		Total:   len(cars),
	})
}

// UpdateCar defines a PUT handler overwriting every listing field of a car
// that exists and is not deleted. Missing data is reported before an unknown
// id, and an unknown id before the reference checks.
func (h *httpServer) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := carID(r)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	car, err := decodeCar(w, r)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	if err := dal.CheckPresence(car); err != nil {
		h.reportError(w, r, err)
		return
	}

	existing, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	if existing == nil || existing.IsDeleted {
		h.reportError(w, r, apperr.NotFound())
		return
	}

	if err := dal.CheckReferences(car); err != nil {
		h.reportError(w, r, err)
		return
	}

	// The write itself skips deleted records, so a delete that lands after
	// the lookup still wins.
	updatedCar, err := h.repo.UpdateByID(r.Context(), id, store.Replace(car))
	if err != nil {
		h.reportError(w, r, err)
		return
	}
	if updatedCar == nil {
		h.reportError(w, r, apperr.NotFound())
		return
	}

	writeJSON(w, http.StatusOK, updateCarResponse{
		Message:    "Update Car Successfully!",
		UpdatedCar: updatedCar,
	})
}

// DeleteCar defines a DELETE handler flagging a car as deleted. Unknown ids
// succeed with a null deletedCar.
func (h *httpServer) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := carID(r)
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	deletedCar, err := h.repo.UpdateByID(r.Context(), id, store.SoftDelete())
	if err != nil {
		h.reportError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteCarResponse{
		Message:    "Delete Car Successfully!",
		DeletedCar: deletedCar,
	})
}

// Health reports whether storage is reachable
func (h *httpServer) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		h.log.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func carID(r *http.Request) (string, error) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		return "", apperr.MissingData("id")
	}
	return id, nil
}

// decodeCar reads the request body. An empty body decodes to an empty car so
// that it fails validation as missing data. The body must hold exactly one
// JSON value.
func decodeCar(w http.ResponseWriter, r *http.Request) (dal.Car, error) {
	var car dal.Car
	if r.Body == nil {
		return car, nil
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&car); err != nil {
		if errors.Is(err, io.EOF) {
			return dal.Car{}, nil
		}
		return dal.Car{}, apperr.MalformedBody(err)
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after the car object")
		}
		return dal.Car{}, apperr.MalformedBody(err)
	}
	return car, nil
}

func parsePositiveInt(vars url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(vars.Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.InvalidPagination()
	}
	return n, nil
}

// parseFilter accepts filter[make]=Toyota pairs or a JSON object in the
// filter parameter. Keys are checked against the store whitelist.
func parseFilter(vars url.Values) (store.Filter, error) {
	values := make(map[string]string)

	if raw := strings.TrimSpace(vars.Get("filter")); raw != "" {
		decoder := json.NewDecoder(strings.NewReader(raw))
		decoder.UseNumber()
		var obj map[string]any
		if err := decoder.Decode(&obj); err != nil {
			return store.Filter{}, apperr.InvalidFilter("filter must be a JSON object")
		}
		for key, v := range obj {
			switch val := v.(type) {
			case string:
				values[key] = val
			case json.Number:
				values[key] = val.String()
			default:
				return store.Filter{}, apperr.InvalidFilter("filter " + strconv.Quote(key) + " must be a string or a number")
			}
		}
	}

	for key, vs := range vars {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, "filter["), "]")
		if len(vs) > 0 {
			values[name] = vs[0]
		}
	}

	return store.ParseFilter(values)
}

// paginate returns cars[(page-1)*limit : page*limit], clamped to the slice.
func paginate(cars []dal.Car, page, limit int) []dal.Car {
	if page > len(cars)/limit+1 {
		return []dal.Car{}
	}
	skip := (page - 1) * limit
	if skip >= len(cars) {
		return []dal.Car{}
	}
	end := skip + limit
	if end > len(cars) {
		end = len(cars)
	}
	return cars[skip:end]
}
