package service_test

import (
	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

func (s *ServiceSuite) TestCreateUserDefaultsToStudent() {
	u, err := s.users.CreateUser(s.ctx, dto.CreateUserRequest{Username: "dana", Email: "dana@example.com", Password: "secret99"})
	s.Require().NoError(err)
	s.Equal(model.RoleStudent, u.Role)

	stored, err := s.userRepo.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.NotEqual("secret99", stored.PasswordHash)
	s.NotEmpty(stored.PasswordHash)
}

func (s *ServiceSuite) TestCreateUserRejectsDuplicates() {
	_, err := s.users.CreateUser(s.ctx, dto.CreateUserRequest{Username: "erin", Email: "erin@example.com", Password: "secret99"})
	s.Require().NoError(err)

	_, err = s.users.CreateUser(s.ctx, dto.CreateUserRequest{Username: "erin", Email: "other@example.com", Password: "secret99"})
	s.requireKind(err, apperror.KindConflict)
	s.Contains(err.Error(), "username")

	_, err = s.users.CreateUser(s.ctx, dto.CreateUserRequest{Username: "erin2", Email: "erin@example.com", Password: "secret99"})
	s.requireKind(err, apperror.KindConflict)
	s.Contains(err.Error(), "email")
}

func (s *ServiceSuite) TestCreateUserRejectsUnknownRole() {
	_, err := s.users.CreateUser(s.ctx, dto.CreateUserRequest{Username: "frank", Email: "frank@example.com", Password: "secret99", Role: "admin"})
	s.requireKind(err, apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestUpdateUserChecksOtherRecordsOnly() {
	a := s.newUser(model.RoleStudent)
	b := s.newUser(model.RoleStudent)

	same, err := s.users.UpdateUser(s.ctx, a.ID, dto.UpdateUserRequest{Username: ptr(a.Username), Email: ptr(a.Email)})
	s.Require().NoError(err)
	s.Equal(a.Username, same.Username)

	_, err = s.users.UpdateUser(s.ctx, a.ID, dto.UpdateUserRequest{Username: ptr(b.Username)})
	s.requireKind(err, apperror.KindConflict)

	_, err = s.users.UpdateUser(s.ctx, a.ID, dto.UpdateUserRequest{Email: ptr(b.Email)})
	s.requireKind(err, apperror.KindConflict)

	updated, err := s.users.UpdateUser(s.ctx, a.ID, dto.UpdateUserRequest{Username: ptr("renamed"), Role: ptr(model.RoleOrganizer)})
	s.Require().NoError(err)
	s.Equal("renamed", updated.Username)
	s.Equal(model.RoleOrganizer, updated.Role)
	s.Equal(a.Email, updated.Email, "unset fields stay unchanged")

	_, err = s.users.UpdateUser(s.ctx, 999, dto.UpdateUserRequest{})
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestUpdateUserRehashesPassword() {
	u := s.newUser(model.RoleStudent)
	before, err := s.userRepo.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)

	_, err = s.users.UpdateUser(s.ctx, u.ID, dto.UpdateUserRequest{Password: ptr("brand-new-pass")})
	s.Require().NoError(err)

	after, err := s.userRepo.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.NotEqual(before.PasswordHash, after.PasswordHash)
}

func (s *ServiceSuite) TestSearchUsers() {
	s.newUser(model.RoleStudent)
	s.newUser(model.RoleOrganizer)

	found, err := s.users.SearchUsers(s.ctx, "ORGAN")
	s.Require().NoError(err)
	s.Len(found, 1)

	found, err = s.users.SearchUsers(s.ctx, "nobody-matches")
	s.Require().NoError(err)
	s.NotNil(found)
	s.Empty(found)
}

func (s *ServiceSuite) TestGetUserByUsernameAndEmail() {
	u := s.newUser(model.RoleStudent)

	byName, err := s.users.GetUserByUsername(s.ctx, u.Username)
	s.Require().NoError(err)
	s.Equal(u.ID, byName.ID)

	byEmail, err := s.users.GetUserByEmail(s.ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)

	_, err = s.users.GetUserByUsername(s.ctx, "ghost")
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestDeleteUserGuards() {
	exam := s.newExam(examOpts{})
	student := s.newUser(model.RoleStudent)
	reg := s.register(student.ID, exam.ID)

	err := s.users.DeleteUser(s.ctx, exam.OrganizerID)
	s.requireKind(err, apperror.KindConflict)

	err = s.users.DeleteUser(s.ctx, student.ID)
	s.requireKind(err, apperror.KindConflict)

	_, err = s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationCancelled)})
	s.Require().NoError(err)

	s.Require().NoError(s.users.DeleteUser(s.ctx, student.ID))
	_, err = s.users.GetUser(s.ctx, student.ID)
	s.requireKind(err, apperror.KindNotFound)

	_, err = s.registrations.GetRegistration(s.ctx, reg.ID)
	s.requireKind(err, apperror.KindNotFound)

	s.requireKind(s.users.DeleteUser(s.ctx, student.ID), apperror.KindNotFound)
}
