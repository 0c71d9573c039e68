package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/linguaday/backend/internal/infrastructure/auth"
	"github.com/linguaday/backend/internal/infrastructure/validate"
	"github.com/linguaday/backend/internal/roadmap"
)

type RoadmapHandler struct {
	roadmapUseCase roadmap.RoadmapUseCase
	jwtUtil        *auth.JWTUtil
}

func NewRoadmapHandler(RoadmapUseCase roadmap.RoadmapUseCase, JWTUtil *auth.JWTUtil) *RoadmapHandler {
	handler := &RoadmapHandler{RoadmapUseCase, JWTUtil}
	return handler
}

// HandleGetRoadmap per-day render state and level aggregates for the
// signed-in user
func (rh *RoadmapHandler) HandleGetRoadmap(c echo.Context) (err error) {
	claims := rh.jwtUtil.GetContextToken(c)

	result, err := rh.roadmapUseCase.GetRoadmap(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// HandleCompleteDay advance progress after the current day is finished
func (rh *RoadmapHandler) HandleCompleteDay(c echo.Context) (err error) {
	claims := rh.jwtUtil.GetContextToken(c)

	day, paramErr := dayParam(c)
	if paramErr != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{paramErr}))
	}

	progress, err := rh.roadmapUseCase.CompleteDay(c.Request().Context(), claims.UID, day)
	if err != nil {
		if errors.Is(err, roadmap.ErrDayNotCompletable) {
			return c.JSON(http.StatusConflict, NewRESTStandardError(http.StatusConflict, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, progress)
}

// dayParam parse and range check the :day route param
func dayParam(c echo.Context) (int, *validate.FieldError) {
	raw := c.Param("day")
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validate.NewFieldError("day", "day must be an integer")
	}
	if day < roadmap.FirstDay || day > roadmap.LastDay {
		return 0, validate.NewFieldError("day", "day is out of course range")
	}
	return day, nil
}
