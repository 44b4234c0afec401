//go:build integration

package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/lock"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/lshigami/examhub/internal/service"
	"github.com/lshigami/examhub/internal/testutil"
	"github.com/lshigami/examhub/internal/testutil/containers"
)

type RegistrationConcurrencySuite struct {
	suite.Suite
	pg            *containers.PostgresContainer
	users         repository.UserRepository
	exams         repository.ExamRepository
	locations     repository.LocationRepository
	registrations service.RegistrationService
}

func TestRegistrationConcurrencySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RegistrationConcurrencySuite))
}

func (s *RegistrationConcurrencySuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	db := s.pg.DB
	s.users = repository.NewUserRepository(db)
	s.exams = repository.NewExamRepository(db)
	s.locations = repository.NewLocationRepository(db)
	s.registrations = service.NewRegistrationService(
		repository.NewRegistrationRepository(db), s.exams, s.users, repository.NewNotificationRepository(db),
		lock.NewLocalLocker(), testutil.NewClock(), metrics.New(prometheus.NewRegistry()), db,
	)
}

func (s *RegistrationConcurrencySuite) TearDownSuite() {
	s.pg.Terminate()
}

func (s *RegistrationConcurrencySuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(),
		"notifications", "analytics", "results", "payments", "registrations", "exams", "locations", "users"))
}

func (s *RegistrationConcurrencySuite) seed(capacity, students int) (*model.Exam, []*model.User) {
	ctx := context.Background()
	organizer := &model.User{Username: "organizer", Email: "organizer@example.com", PasswordHash: "x", Role: model.RoleOrganizer}
	s.Require().NoError(s.users.Create(ctx, organizer))
	loc := &model.Location{Name: "Hall", Address: "1 Main St", Capacity: 100}
	s.Require().NoError(s.locations.Create(ctx, loc))
	exam := &model.Exam{
		Subject: "Mathematics", Date: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), Cost: decimal.NewFromInt(50),
		Capacity: capacity, Status: model.ExamStatusActive, OrganizerID: organizer.ID, LocationID: loc.ID,
	}
	s.Require().NoError(s.exams.Create(ctx, exam))

	users := make([]*model.User, students)
	for i := range users {
		name := fmt.Sprintf("student%02d", i)
		users[i] = &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: model.RoleStudent}
		s.Require().NoError(s.users.Create(ctx, users[i]))
	}
	return exam, users
}

func (s *RegistrationConcurrencySuite) TestSeatsNeverOversold() {
	exam, students := s.seed(5, 20)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for _, st := range students {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := s.registrations.CreateRegistration(context.Background(), dto.CreateRegistrationRequest{UserID: userID, ExamID: exam.ID})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
				return
			}
			if s.Equal(apperror.KindInvalidArgument, apperror.KindOf(err), "unexpected error: %v", err) {
				rejected++
			}
		}(st.ID)
	}
	wg.Wait()

	s.Equal(5, accepted)
	s.Equal(15, rejected)
	stored, err := s.exams.FindByID(context.Background(), exam.ID)
	s.Require().NoError(err)
	s.Equal(5, stored.CurrentRegistrations)
}

func (s *RegistrationConcurrencySuite) TestSameUserRegistersOnce() {
	exam, students := s.seed(10, 1)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.registrations.CreateRegistration(context.Background(), dto.CreateRegistrationRequest{UserID: students[0].ID, ExamID: exam.ID})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			s.Equal(apperror.KindConflict, apperror.KindOf(err), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	s.Equal(1, accepted)
	stored, err := s.exams.FindByID(context.Background(), exam.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.CurrentRegistrations)
}
