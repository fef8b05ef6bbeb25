package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"labreserve/internal/auth"
	"labreserve/internal/errors"
	"labreserve/internal/model"
	"labreserve/internal/pagination"
	"labreserve/internal/repository"
	"labreserve/internal/service"
)

// ReservationHandler handles reservation endpoints.
type ReservationHandler struct {
	reservationService service.ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservationRequest represents a reservation creation request.
type CreateReservationRequest struct {
	LabName    string    `json:"lab_name" validate:"required,min=3,max=150"`
	ReservedBy string    `json:"reserved_by" validate:"required,min=3,max=150"`
	Purpose    string    `json:"purpose" validate:"required,min=3"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	Active     *bool     `json:"active"`
}

// UpdateReservationRequest represents a partial reservation update.
type UpdateReservationRequest struct {
	LabName    *string    `json:"lab_name" validate:"omitempty,min=3,max=150"`
	ReservedBy *string    `json:"reserved_by" validate:"omitempty,min=3,max=150"`
	Purpose    *string    `json:"purpose" validate:"omitempty,min=3"`
	StartTime  *time.Time `json:"start_time"`
	Active     *bool      `json:"active"`
}

// PaginatedReservations is the paginated listing envelope.
type PaginatedReservations struct {
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Size    int                 `json:"size"`
	Pages   int                 `json:"pages"`
	Results []model.Reservation `json:"results"`
}

// Create godoc
// @Summary Create a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReservationRequest true "Reservation data"
// @Success 201 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reservations/ [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	reservation, err := h.reservationService.Create(c.Request().Context(), auth.CurrentUser(c).ID, service.ReservationInput{
		LabName:    req.LabName,
		ReservedBy: req.ReservedBy,
		Purpose:    req.Purpose,
		StartTime:  req.StartTime,
		Active:     active,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, reservation)
}

// List godoc
// @Summary List the caller's reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param lab_name query string false "Case-insensitive lab name substring"
// @Param start_date query string false "Exact calendar date (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {object} PaginatedReservations
// @Failure 401 {object} errors.ErrorResponse
// @Router /reservations/ [get]
func (h *ReservationHandler) List(c echo.Context) error {
	filter := repository.ReservationFilter{
		LabName: c.QueryParam("lab_name"),
	}
	if raw := c.QueryParam("start_date"); raw != "" {
		startDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid start_date, expected YYYY-MM-DD",
				Code:  "VALIDATION_ERROR",
			})
		}
		filter.StartDate = &startDate
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	params := pagination.Normalize(page, size)

	reservations, total, err := h.reservationService.List(c.Request().Context(), auth.CurrentUser(c).ID, filter, params)
	if err != nil {
		return mapDomainError(err)
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}

	return c.JSON(http.StatusOK, PaginatedReservations{
		Total:   total,
		Page:    params.Page,
		Size:    params.Size,
		Pages:   params.Pages(total),
		Results: reservations,
	})
}

// GetByID godoc
// @Summary Get one reservation by id
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} model.Reservation
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	reservation, err := h.reservationService.GetByID(c.Request().Context(), auth.CurrentUser(c).ID, id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// Update godoc
// @Summary Partially update a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param request body UpdateReservationRequest true "Fields to update"
// @Success 200 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	reservation, err := h.reservationService.Update(c.Request().Context(), auth.CurrentUser(c).ID, id, service.ReservationPatch{
		LabName:    req.LabName,
		ReservedBy: req.ReservedBy,
		Purpose:    req.Purpose,
		StartTime:  req.StartTime,
		Active:     req.Active,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// Delete godoc
// @Summary Soft-delete a reservation
// @Tags reservations
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 204 "No Content"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.reservationService.SoftDelete(c.Request().Context(), auth.CurrentUser(c).ID, id); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PopularTimes godoc
// @Summary Popularity analysis of hours and labs
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PopularTimes
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reservations/analysis/popular-times [get]
func (h *ReservationHandler) PopularTimes(c echo.Context) error {
	result, err := h.reservationService.PopularTimes(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// mapDomainError converts domain errors to echo HTTP errors.
func mapDomainError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
