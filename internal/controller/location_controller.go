package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
)

// CreateLocationHandler godoc
// @Summary Create a location
// @Tags locations
// @Accept json
// @Produce json
// @Param location body dto.CreateLocationRequest true "Location data"
// @Success 201 {object} dto.LocationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /locations [post]
func (ctrl *Controller) CreateLocationHandler(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindJSON(c, &req) {
		return
	}
	location, err := ctrl.locationSvc.CreateLocation(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create location")
		return
	}
	c.JSON(http.StatusCreated, location)
}

// GetAllLocationsHandler godoc
// @Summary List locations
// @Description Without bounds every location is returned. Bounds are inclusive.
// @Tags locations
// @Produce json
// @Param min_capacity query int false "Minimum capacity"
// @Param max_capacity query int false "Maximum capacity"
// @Success 200 {array} dto.LocationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid bounds"
// @Router /locations [get]
func (ctrl *Controller) GetAllLocationsHandler(c *gin.Context) {
	min, ok := optionalInt(c, "min_capacity")
	if !ok {
		return
	}
	max, ok := optionalInt(c, "max_capacity")
	if !ok {
		return
	}

	var (
		locations []dto.LocationResponse
		err       error
	)
	if min == nil && max == nil {
		locations, err = ctrl.locationSvc.GetAllLocations(c.Request.Context())
	} else {
		locations, err = ctrl.locationSvc.GetLocationsByCapacityRange(c.Request.Context(), min, max)
	}
	if err != nil {
		ctrl.respondError(c, err, "Failed to list locations")
		return
	}
	c.JSON(http.StatusOK, locations)
}

// SearchLocationsHandler godoc
// @Summary Search locations by name or address
// @Tags locations
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} dto.LocationResponse
// @Router /locations/search [get]
func (ctrl *Controller) SearchLocationsHandler(c *gin.Context) {
	locations, err := ctrl.locationSvc.SearchLocations(c.Request.Context(), c.Query("q"))
	if err != nil {
		ctrl.respondError(c, err, "Failed to search locations")
		return
	}
	c.JSON(http.StatusOK, locations)
}

// GetLocationHandler godoc
// @Summary Get a location by ID
// @Tags locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} dto.LocationResponse
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /locations/{id} [get]
func (ctrl *Controller) GetLocationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	location, err := ctrl.locationSvc.GetLocation(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get location")
		return
	}
	c.JSON(http.StatusOK, location)
}

// CheckLocationAvailabilityHandler godoc
// @Summary Check whether a location seats the given number of people
// @Tags locations
// @Produce json
// @Param id path int true "Location ID"
// @Param required query int true "Required capacity"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /locations/{id}/availability [get]
func (ctrl *Controller) CheckLocationAvailabilityHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	required, ok := optionalInt(c, "required")
	if !ok {
		return
	}
	if required == nil {
		badRequest(c, "required is required")
		return
	}
	available, err := ctrl.locationSvc.CheckAvailability(c.Request.Context(), id, *required)
	if err != nil {
		ctrl.respondError(c, err, "Failed to check location availability")
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

// UpdateLocationHandler godoc
// @Summary Update a location
// @Description Capacity cannot drop below the capacity of any exam held there.
// @Tags locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param location body dto.UpdateLocationRequest true "Fields to change"
// @Success 200 {object} dto.LocationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /locations/{id} [put]
func (ctrl *Controller) UpdateLocationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLocationRequest
	if !bindJSON(c, &req) {
		return
	}
	location, err := ctrl.locationSvc.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update location")
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocationHandler godoc
// @Summary Delete an unused location
// @Tags locations
// @Param id path int true "Location ID"
// @Success 204 "Location deleted"
// @Failure 400 {object} dto.ErrorResponse "Location in use"
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /locations/{id} [delete]
func (ctrl *Controller) DeleteLocationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.locationSvc.DeleteLocation(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete location")
		return
	}
	c.Status(http.StatusNoContent)
}
