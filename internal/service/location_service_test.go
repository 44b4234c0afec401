package service_test

import (
	"github.com/shopspring/decimal"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

func (s *ServiceSuite) TestCreateLocationRequiresPositiveCapacity() {
	for _, capacity := range []int{0, -5} {
		_, err := s.locations.CreateLocation(s.ctx, dto.CreateLocationRequest{Name: "Annex", Address: "2 Side St", Capacity: capacity})
		s.requireKind(err, apperror.KindInvalidArgument)
	}
	loc, err := s.locations.CreateLocation(s.ctx, dto.CreateLocationRequest{Name: "Annex", Address: "2 Side St", Capacity: 1})
	s.Require().NoError(err)
	s.Equal(1, loc.Capacity)
}

func (s *ServiceSuite) TestUpdateLocation() {
	loc := s.newLocation(50)

	_, err := s.locations.UpdateLocation(s.ctx, loc.ID, dto.UpdateLocationRequest{Capacity: ptr(0)})
	s.requireKind(err, apperror.KindInvalidArgument)

	updated, err := s.locations.UpdateLocation(s.ctx, loc.ID, dto.UpdateLocationRequest{Name: ptr("West Wing")})
	s.Require().NoError(err)
	s.Equal("West Wing", updated.Name)
	s.Equal(50, updated.Capacity)

	_, err = s.locations.UpdateLocation(s.ctx, 404, dto.UpdateLocationRequest{})
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestUpdateLocationCannotShrinkBelowExamCapacity() {
	organizer := s.newUser(model.RoleOrganizer)
	loc := s.newLocation(40)
	_, err := s.exams.CreateExam(s.ctx, dto.CreateExamRequest{
		Subject: "Biology", Date: s.future(10), Cost: decimal.NewFromInt(20),
		Capacity: 30, OrganizerID: organizer.ID, LocationID: loc.ID,
	})
	s.Require().NoError(err)

	_, err = s.locations.UpdateLocation(s.ctx, loc.ID, dto.UpdateLocationRequest{Capacity: ptr(29)})
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.locations.UpdateLocation(s.ctx, loc.ID, dto.UpdateLocationRequest{Capacity: ptr(30)})
	s.NoError(err)
}

func (s *ServiceSuite) TestLocationCheckAvailability() {
	loc := s.newLocation(25)

	ok, err := s.locations.CheckAvailability(s.ctx, loc.ID, 25)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.locations.CheckAvailability(s.ctx, loc.ID, 26)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.locations.CheckAvailability(s.ctx, 999, 1)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestLocationsByCapacityRange() {
	for _, c := range []int{10, 20, 30} {
		s.newLocation(c)
	}

	found, err := s.locations.GetLocationsByCapacityRange(s.ctx, ptr(20), ptr(30))
	s.Require().NoError(err)
	s.Len(found, 2)

	found, err = s.locations.GetLocationsByCapacityRange(s.ctx, ptr(20), ptr(20))
	s.Require().NoError(err)
	s.Len(found, 1)

	_, err = s.locations.GetLocationsByCapacityRange(s.ctx, ptr(-1), nil)
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.locations.GetLocationsByCapacityRange(s.ctx, ptr(30), ptr(10))
	s.requireKind(err, apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestSearchLocations() {
	s.newLocation(10)
	_, err := s.locations.CreateLocation(s.ctx, dto.CreateLocationRequest{Name: "Library", Address: "9 Elm Street", Capacity: 12})
	s.Require().NoError(err)

	found, err := s.locations.SearchLocations(s.ctx, "elm")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Library", found[0].Name)
}

func (s *ServiceSuite) TestDeleteLocationInUse() {
	exam := s.newExam(examOpts{})

	err := s.locations.DeleteLocation(s.ctx, exam.LocationID)
	s.requireKind(err, apperror.KindConflict)

	free := s.newLocation(5)
	s.Require().NoError(s.locations.DeleteLocation(s.ctx, free.ID))
	s.requireKind(s.locations.DeleteLocation(s.ctx, free.ID), apperror.KindNotFound)
}
