package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/core"
	"tally/internal/notify"
	"tally/internal/storage"
)

// GoalService manages savings goals and their progress lifecycle.
type GoalService struct {
	goals    storage.GoalRepository
	notifier *notify.Center
}

func NewGoalService(goals storage.GoalRepository, notifier *notify.Center) *GoalService {
	return &GoalService{goals: goals, notifier: notifier}
}

func (s *GoalService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := core.ValidateGoal(g.Name, g.Target, g.TargetDate, time.Now()).Err(); err != nil {
		return core.Goal{}, err
	}
	return s.goals.CreateGoal(ctx, g)
}

func (s *GoalService) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return s.goals.GetGoal(ctx, id)
}

func (s *GoalService) UpdateGoal(ctx context.Context, g core.Goal) error {
	return s.goals.UpdateGoal(ctx, g)
}

func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	return s.goals.DeleteGoal(ctx, id)
}

func (s *GoalService) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return s.goals.ListGoals(ctx)
}

func (s *GoalService) ListActiveGoals(ctx context.Context) ([]core.Goal, error) {
	return s.goals.ListActiveGoals(ctx)
}

func (s *GoalService) ListCompletedGoals(ctx context.Context) ([]core.Goal, error) {
	return s.goals.ListCompletedGoals(ctx)
}

// AddProgress applies a positive or negative saved-amount delta. Crossing
// the target completes the goal and raises a milestone notification.
func (s *GoalService) AddProgress(ctx context.Context, id string, amount core.Money) (core.Goal, error) {
	if amount.Cents == 0 {
		return core.Goal{}, core.ErrInvalidProgressAmount
	}

	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}

	updated, milestone := g.ApplyProgress(amount)
	if err := s.goals.UpdateGoal(ctx, updated); err != nil {
		return core.Goal{}, fmt.Errorf("update goal progress: %w", err)
	}

	if milestone {
		slog.InfoContext(ctx, "Goal completed", "id", updated.ID, "name", updated.Name)
		if s.notifier != nil {
			s.notifier.Add(notify.Item{
				Type:          notify.TypeGoalMilestone,
				Title:         "Goal reached",
				Message:       fmt.Sprintf("%s hit its target of %.2f", updated.Name, updated.Target.Units()),
				RelatedGoalID: updated.ID,
			})
		}
	}

	return updated, nil
}

// MarkCompleted force-finishes a goal regardless of how much was saved.
// An already-completed goal stays completed without a second notification.
func (s *GoalService) MarkCompleted(ctx context.Context, id string) (core.Goal, error) {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}

	wasCompleted := g.Completed
	done := g.MarkCompleted()
	if err := s.goals.UpdateGoal(ctx, done); err != nil {
		return core.Goal{}, fmt.Errorf("mark goal completed: %w", err)
	}

	if !wasCompleted {
		slog.InfoContext(ctx, "Goal marked completed", "id", done.ID, "name", done.Name)
		if s.notifier != nil {
			s.notifier.Add(notify.Item{
				Type:          notify.TypeGoalMilestone,
				Title:         "Goal reached",
				Message:       fmt.Sprintf("%s hit its target of %.2f", done.Name, done.Target.Units()),
				RelatedGoalID: done.ID,
			})
		}
	}

	return done, nil
}

// ResetProgress clears the saved amount and reopens the goal.
func (s *GoalService) ResetProgress(ctx context.Context, id string) (core.Goal, error) {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}

	reset := g.ResetProgress()
	if err := s.goals.UpdateGoal(ctx, reset); err != nil {
		return core.Goal{}, fmt.Errorf("reset goal progress: %w", err)
	}
	return reset, nil
}
