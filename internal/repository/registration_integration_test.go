//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/lshigami/examhub/internal/testutil/containers"
)

type PostgresRepositorySuite struct {
	suite.Suite
	pg            *containers.PostgresContainer
	exams         repository.ExamRepository
	registrations repository.RegistrationRepository
	user          *model.User
	exam          *model.Exam
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.exams = repository.NewExamRepository(s.pg.DB)
	s.registrations = repository.NewRegistrationRepository(s.pg.DB)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	s.pg.Terminate()
}

func (s *PostgresRepositorySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateTables(ctx, "notifications", "analytics", "results", "payments", "registrations", "exams", "locations", "users"))

	users := repository.NewUserRepository(s.pg.DB)
	organizer := &model.User{Username: "organizer", Email: "organizer@example.com", PasswordHash: "x", Role: model.RoleOrganizer}
	s.Require().NoError(users.Create(ctx, organizer))
	s.user = &model.User{Username: "student", Email: "student@example.com", PasswordHash: "x", Role: model.RoleStudent}
	s.Require().NoError(users.Create(ctx, s.user))

	loc := &model.Location{Name: "Hall", Address: "1 Main St", Capacity: 100}
	s.Require().NoError(repository.NewLocationRepository(s.pg.DB).Create(ctx, loc))

	s.exam = &model.Exam{
		Subject: "Mathematics", Date: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), Cost: decimal.NewFromInt(50),
		Capacity: 3, Status: model.ExamStatusActive, OrganizerID: organizer.ID, LocationID: loc.ID,
	}
	s.Require().NoError(s.exams.Create(ctx, s.exam))
}

func (s *PostgresRepositorySuite) TestConcurrentActivePairIsUnique() {
	const workers = 10
	ctx := context.Background()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
		others     []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.registrations.Create(ctx, &model.Registration{
				UserID: s.user.ID, ExamID: s.exam.ID, Status: model.RegistrationPending,
				PaymentStatus: model.PaymentStatusUnpaid, RegisteredAt: time.Now().UTC(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, repository.ErrDuplicate):
				duplicates++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(others)
	s.Equal(1, created)
	s.Equal(workers-1, duplicates)
}

func (s *PostgresRepositorySuite) TestCancelledPairDoesNotBlock() {
	ctx := context.Background()
	first := &model.Registration{UserID: s.user.ID, ExamID: s.exam.ID, Status: model.RegistrationCancelled, PaymentStatus: model.PaymentStatusUnpaid, RegisteredAt: time.Now().UTC()}
	s.Require().NoError(s.registrations.Create(ctx, first))

	second := &model.Registration{UserID: s.user.ID, ExamID: s.exam.ID, Status: model.RegistrationPending, PaymentStatus: model.PaymentStatusUnpaid, RegisteredAt: time.Now().UTC()}
	s.Require().NoError(s.registrations.Create(ctx, second))
}

func (s *PostgresRepositorySuite) TestConcurrentIncrementStopsAtCapacity() {
	const workers = 12
	ctx := context.Background()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.exams.IncrementRegistrations(ctx, s.exam.ID)
			if !s.NoError(err) {
				return
			}
			if ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(s.exam.Capacity, taken)
	exam, err := s.exams.FindByID(ctx, s.exam.ID)
	s.Require().NoError(err)
	s.Equal(s.exam.Capacity, exam.CurrentRegistrations)
}
