package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

func TestSimulationService_CreateStartsPending(t *testing.T) {
	simRepo := &stubSimRepo{}
	modelRepo := &stubModelRepo{model: &domain.Model{ID: "model-1", UserID: "dev-user-2"}}
	svc := NewSimulationService(simRepo, modelRepo, zerolog.Nop())

	sim, err := svc.Create(context.Background(), ports.CreateSimulationInput{
		Name:           "drawdown forecast",
		SimulationType: "theis",
		ModelID:        "model-1",
		UserID:         "dev-user-2",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if sim.Status != domain.SimulationPending {
		t.Fatalf("expected pending status, got %s", sim.Status)
	}
	if len(sim.StatusHistory) != 1 || sim.StatusHistory[0].Status != domain.SimulationPending {
		t.Fatalf("initial history entry missing: %+v", sim.StatusHistory)
	}
	if simRepo.created == nil {
		t.Fatalf("repository create not called")
	}
}

func TestSimulationService_CreateRequiresOwnedModel(t *testing.T) {
	simRepo := &stubSimRepo{}
	modelRepo := &stubModelRepo{model: &domain.Model{ID: "model-1", UserID: "dev-user-2"}}
	svc := NewSimulationService(simRepo, modelRepo, zerolog.Nop())
	ctx := context.Background()

	// Unknown model.
	_, err := svc.Create(ctx, ports.CreateSimulationInput{ModelID: "ghost", UserID: "dev-user-2"})
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}

	// Someone else's model must look identical to a missing one.
	_, err = svc.Create(ctx, ports.CreateSimulationInput{ModelID: "model-1", UserID: "dev-user-3"})
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound for foreign model, got %v", err)
	}
	if simRepo.created != nil {
		t.Fatalf("simulation must not be created when the model check fails")
	}
}
