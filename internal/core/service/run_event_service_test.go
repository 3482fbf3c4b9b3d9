package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

type stubSimRepo struct {
	sim     *domain.Simulation
	created *domain.Simulation

	updatedStatus  domain.SimulationStatus
	updatedNotes   string
	updatedResults *domain.ResultSummary
	updateCalls    int
	updateErr      error

	events []*domain.RunEvent
}

func (r *stubSimRepo) Create(_ context.Context, s *domain.Simulation) error {
	r.created = s
	return nil
}

func (r *stubSimRepo) FindByID(_ context.Context, id, _ string) (*domain.Simulation, error) {
	if r.sim == nil || r.sim.ID != id {
		return nil, domain.ErrSimulationNotFound
	}
	return r.sim, nil
}

func (r *stubSimRepo) List(_ context.Context, _ string, _, _ int) ([]*domain.Simulation, int64, error) {
	return nil, 0, nil
}

func (r *stubSimRepo) UpdateStatus(
	_ context.Context,
	_ string,
	status domain.SimulationStatus,
	_ time.Time,
	notes string,
	results *domain.ResultSummary,
) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updateCalls++
	r.updatedStatus = status
	r.updatedNotes = notes
	r.updatedResults = results
	return nil
}

func (r *stubSimRepo) CountByStatus(_ context.Context, _ string) (map[domain.SimulationStatus]int64, error) {
	return nil, nil
}

func (r *stubSimRepo) InsertEvent(_ context.Context, event *domain.RunEvent) error {
	r.events = append(r.events, event)
	return nil
}

type stubDedup struct {
	duplicate bool
	checkErr  error
	marked    int
}

func (d *stubDedup) IsDuplicate(_ context.Context, _, _ string, _ time.Time) (bool, error) {
	return d.duplicate, d.checkErr
}

func (d *stubDedup) Mark(_ context.Context, _, _ string, _ time.Time) error {
	d.marked++
	return nil
}

func runningSim() *domain.Simulation {
	return &domain.Simulation{ID: "sim-1", Status: domain.SimulationRunning}
}

func TestRunEventService_ProcessCompletion(t *testing.T) {
	repo := &stubSimRepo{sim: runningSim()}
	dedup := &stubDedup{}
	svc := NewRunEventService(repo, repo, dedup, zerolog.Nop())

	err := svc.Process(context.Background(), ports.RunEventInput{
		SimulationID: "sim-1",
		Status:       string(domain.SimulationCompleted),
		Timestamp:    time.Now(),
		Source:       "theis-worker",
		Results: &ports.ResultSummaryInput{
			RadiusOfInfluenceMeters: 152.4,
			TotalWellsAnalyzed:      3,
			PumpingLengthSeconds:    86400,
			TotalTimeSteps:          240,
		},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected one status update, got %d", repo.updateCalls)
	}
	if repo.updatedStatus != domain.SimulationCompleted {
		t.Fatalf("unexpected status written: %s", repo.updatedStatus)
	}
	if repo.updatedResults == nil || repo.updatedResults.TotalWellsAnalyzed != 3 {
		t.Fatalf("results not propagated: %+v", repo.updatedResults)
	}
	// Source is used as notes when notes are empty.
	if repo.updatedNotes != "theis-worker" {
		t.Fatalf("unexpected notes: %q", repo.updatedNotes)
	}
	if dedup.marked != 1 {
		t.Fatalf("expected dedup mark, got %d", dedup.marked)
	}
	if len(repo.events) != 1 || repo.events[0].Status != domain.SimulationCompleted {
		t.Fatalf("audit event not recorded: %+v", repo.events)
	}
}

func TestRunEventService_DuplicateSkipped(t *testing.T) {
	repo := &stubSimRepo{sim: runningSim()}
	svc := NewRunEventService(repo, repo, &stubDedup{duplicate: true}, zerolog.Nop())

	err := svc.Process(context.Background(), ports.RunEventInput{
		SimulationID: "sim-1",
		Status:       string(domain.SimulationCompleted),
		Timestamp:    time.Now(),
	})
	if err != nil {
		t.Fatalf("duplicate should be a no-op, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("duplicate must not update status")
	}
}

func TestRunEventService_DedupFailureIsNotFatal(t *testing.T) {
	repo := &stubSimRepo{sim: runningSim()}
	svc := NewRunEventService(repo, repo, &stubDedup{checkErr: errors.New("redis down")}, zerolog.Nop())

	err := svc.Process(context.Background(), ports.RunEventInput{
		SimulationID: "sim-1",
		Status:       string(domain.SimulationFailed),
		Timestamp:    time.Now(),
	})
	if err != nil {
		t.Fatalf("dedup outage must not block processing, got %v", err)
	}
	if repo.updatedStatus != domain.SimulationFailed {
		t.Fatalf("status not updated: %s", repo.updatedStatus)
	}
}

func TestRunEventService_InvalidTransition(t *testing.T) {
	repo := &stubSimRepo{sim: &domain.Simulation{ID: "sim-1", Status: domain.SimulationCompleted}}
	svc := NewRunEventService(repo, repo, &stubDedup{}, zerolog.Nop())

	err := svc.Process(context.Background(), ports.RunEventInput{
		SimulationID: "sim-1",
		Status:       string(domain.SimulationRunning),
		Timestamp:    time.Now(),
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("invalid transition must not write")
	}
}

func TestRunEventService_SimulationNotFound(t *testing.T) {
	repo := &stubSimRepo{}
	svc := NewRunEventService(repo, repo, &stubDedup{}, zerolog.Nop())

	err := svc.Process(context.Background(), ports.RunEventInput{
		SimulationID: "ghost",
		Status:       string(domain.SimulationRunning),
		Timestamp:    time.Now(),
	})
	if !errors.Is(err, domain.ErrSimulationNotFound) {
		t.Fatalf("expected ErrSimulationNotFound, got %v", err)
	}
}
