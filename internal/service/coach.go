package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/resolutionlab/coach/internal/domain"
	"github.com/resolutionlab/coach/internal/store"
	"go.uber.org/zap"
)

var (
	ErrInterventionNotFound      = errors.New("intervention not found")
	ErrInterventionNotOwned      = errors.New("intervention does not belong to user")
	ErrInterventionAlreadyScored = errors.New("intervention already has a recorded outcome")
	ErrInvalidStrategy           = errors.New("invalid strategy")
)

const defaultLLMTimeout = 10 * time.Second

// Observation is the structured result of the Observe stage.
type Observation struct {
	Phase            domain.ExperimentPhase `json:"phase"`
	TotalPulls       int                    `json:"total_pulls"`
	StrategiesTested int                    `json:"strategies_tested"`
	Leader           *domain.Strategy       `json:"leader,omitempty"`
	LeaderScore      float64                `json:"leader_score,omitempty"`
}

// CheckInResult is the outcome of one Observe→Think→Plan→Act pass.
type CheckInResult struct {
	Intervention *domain.Intervention `json:"intervention"`
	GoalTitle    string               `json:"goal_title"`
	Observation  Observation          `json:"observation"`
	Thought      string               `json:"thought"`
	Plan         Selection            `json:"plan"`
}

// OutcomeResult is the outcome of one Evaluate→Learn pass.
type OutcomeResult struct {
	Strategy           domain.Strategy        `json:"strategy"`
	Completed          bool                   `json:"completed"`
	Sentiment          domain.Sentiment       `json:"sentiment"`
	Reward             float64                `json:"reward"`
	EffectivenessScore float64                `json:"updated_effectiveness_score"`
	Phase              domain.ExperimentPhase `json:"experiment_phase"`
}

// CoachService sequences the cognitive loop: Observe, Think, Plan and Act on
// check-in, Evaluate and Learn on outcome submission. Plan and Learn are the
// only stages with decision authority and depend solely on the stats store;
// Act and Evaluate are the only stages with external I/O and both degrade
// gracefully when the collaborator fails.
type CoachService struct {
	goals         domain.GoalStore
	interventions domain.InterventionStore
	outcomes      domain.OutcomeStore
	stats         *StatsService
	policy        *BanditPolicy
	insights      *InsightEngine
	llm           domain.CoachLLM
	traces        domain.TraceStore
	logger        *zap.Logger

	llmTimeout time.Duration

	// rand.Rand is not safe for concurrent use; selections share one guarded
	// source so sequences stay reproducible under a fixed seed.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewCoachService(
	goals domain.GoalStore,
	interventions domain.InterventionStore,
	outcomes domain.OutcomeStore,
	stats *StatsService,
	policy *BanditPolicy,
	insights *InsightEngine,
	llm domain.CoachLLM,
	traces domain.TraceStore,
	rng *rand.Rand,
	logger *zap.Logger,
) *CoachService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CoachService{
		goals:         goals,
		interventions: interventions,
		outcomes:      outcomes,
		stats:         stats,
		policy:        policy,
		insights:      insights,
		llm:           llm,
		traces:        traces,
		logger:        logger,
		llmTimeout:    defaultLLMTimeout,
		rng:           rng,
	}
}

// SetLLMTimeout overrides the bound on external generation/judging calls.
func (s *CoachService) SetLLMTimeout(d time.Duration) {
	if d > 0 {
		s.llmTimeout = d
	}
}

// CheckIn runs Observe→Think→Plan→Act for one goal and persists the
// resulting intervention. forceStrategy bypasses Plan when set (testing aid).
func (s *CoachService) CheckIn(ctx context.Context, userID, goalID uuid.UUID, forceStrategy *domain.Strategy) (*CheckInResult, error) {
	goal, err := s.getOwnedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	// Observe
	snapshot, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	obs := s.observe(snapshot)
	s.trace(ctx, userID, goalID, nil, domain.StageObserve, map[string]any{
		"phase":             obs.Phase,
		"total_pulls":       obs.TotalPulls,
		"strategies_tested": obs.StrategiesTested,
	})

	// Think
	thought := s.think(obs)
	s.trace(ctx, userID, goalID, nil, domain.StageThink, map[string]any{"rationale": thought})

	// Plan
	var plan Selection
	if forceStrategy != nil {
		if !domain.ValidStrategy(string(*forceStrategy)) {
			return nil, ErrInvalidStrategy
		}
		plan = Selection{Strategy: *forceStrategy, Reason: "forced"}
	} else {
		s.rngMu.Lock()
		plan = s.policy.Select(snapshot, obs.Phase, s.rng)
		s.rngMu.Unlock()
	}
	s.trace(ctx, userID, goalID, nil, domain.StagePlan, map[string]any{
		"strategy": plan.Strategy,
		"reason":   plan.Reason,
	})

	// Act
	message, fallback := s.act(ctx, plan.Strategy, goal)

	iv := &domain.Intervention{
		UserID:            userID,
		GoalID:            goalID,
		Strategy:          plan.Strategy,
		Message:           message,
		FallbackGenerated: fallback,
	}
	if err := s.interventions.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("create intervention: %w", err)
	}
	s.trace(ctx, userID, goalID, &iv.ID, domain.StageAct, map[string]any{
		"strategy":           plan.Strategy,
		"fallback_generated": fallback,
		"message_length":     len(message),
	})

	return &CheckInResult{
		Intervention: iv,
		GoalTitle:    goal.Title,
		Observation:  obs,
		Thought:      thought,
		Plan:         plan,
	}, nil
}

// RecordOutcome runs Evaluate→Learn for one intervention. Response time is
// measured from the intervention's sent_at to now. Each intervention can be
// scored at most once.
func (s *CoachService) RecordOutcome(ctx context.Context, userID, interventionID uuid.UUID, completed bool, feedback string) (*OutcomeResult, error) {
	iv, err := s.interventions.GetByID(ctx, interventionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInterventionNotFound
		}
		return nil, err
	}
	if iv.UserID != userID {
		return nil, ErrInterventionNotOwned
	}

	responseTime := time.Since(iv.SentAt).Seconds()
	if responseTime < 0 {
		responseTime = 0
	}

	// Evaluate
	sentiment := s.evaluate(ctx, iv, feedback)
	s.trace(ctx, userID, iv.GoalID, &iv.ID, domain.StageEvaluate, map[string]any{
		"sentiment":    sentiment,
		"had_feedback": feedback != "",
	})

	reward, err := ComputeReward(completed, responseTime, sentiment)
	if err != nil {
		return nil, err
	}

	// Learn. The outcome row and the aggregate update commit together: the
	// unique intervention_id rejects double scoring, and a stats conflict
	// rolls the outcome back so the check-in can be resubmitted.
	outcome := &domain.Outcome{
		InterventionID:      iv.ID,
		UserID:              userID,
		GoalID:              iv.GoalID,
		Completed:           completed,
		ResponseTimeSeconds: responseTime,
		Feedback:            feedback,
		Sentiment:           sentiment,
		Reward:              reward,
	}
	updated, err := s.stats.RecordOutcome(ctx, outcome, iv.Strategy)
	if err != nil {
		return nil, err
	}

	if err := s.goals.RecordCheckIn(ctx, iv.GoalID, completed); err != nil {
		s.logger.Warn("failed to update goal counters",
			zap.String("goal_id", iv.GoalID.String()),
			zap.Error(err),
		)
	}

	snapshot, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	phase := s.stats.Phase(snapshot)

	s.trace(ctx, userID, iv.GoalID, &iv.ID, domain.StageLearn, map[string]any{
		"strategy":            iv.Strategy,
		"reward":              reward,
		"effectiveness_score": updated.EffectivenessScore,
		"pulls":               updated.Pulls,
		"phase":               phase,
	})

	return &OutcomeResult{
		Strategy:           iv.Strategy,
		Completed:          completed,
		Sentiment:          sentiment,
		Reward:             reward,
		EffectivenessScore: updated.EffectivenessScore,
		Phase:              phase,
	}, nil
}

// Insights reports the ranking, best/worst strategies and recommendation for
// a user.
func (s *CoachService) Insights(ctx context.Context, userID uuid.UUID) (*Insights, error) {
	snapshot, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := s.insights.Build(snapshot, s.stats.Phase(snapshot))
	return &out, nil
}

// Snapshot exposes the raw stats snapshot for reporting endpoints.
func (s *CoachService) Snapshot(ctx context.Context, userID uuid.UUID) (map[domain.Strategy]domain.StrategyStat, domain.ExperimentPhase, error) {
	snapshot, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return snapshot, s.stats.Phase(snapshot), nil
}

// InterventionDetail pairs an intervention with its recorded outcome, if any.
type InterventionDetail struct {
	Intervention *domain.Intervention `json:"intervention"`
	Outcome      *domain.Outcome      `json:"outcome,omitempty"`
}

func (s *CoachService) GetIntervention(ctx context.Context, userID, id uuid.UUID) (*InterventionDetail, error) {
	iv, err := s.interventions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInterventionNotFound
		}
		return nil, err
	}
	if iv.UserID != userID {
		return nil, ErrInterventionNotOwned
	}

	detail := &InterventionDetail{Intervention: iv}
	outcome, err := s.outcomes.GetByInterventionID(ctx, iv.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	} else {
		detail.Outcome = outcome
	}
	return detail, nil
}

func (s *CoachService) History(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID, limit, offset int) ([]domain.Intervention, error) {
	history, err := s.interventions.ListByUser(ctx, userID, goalID, limit, offset)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.Intervention{}
	}
	return history, nil
}

func (s *CoachService) getOwnedGoal(ctx context.Context, goalID, userID uuid.UUID) (*domain.Goal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrGoalNotOwned
	}
	return goal, nil
}

func (s *CoachService) observe(snapshot map[domain.Strategy]domain.StrategyStat) Observation {
	obs := Observation{Phase: ComputePhase(snapshot, s.stats.minDataPoints)}

	var leader *domain.Strategy
	leaderScore := 0.0
	for _, strategy := range domain.Strategies() {
		st := snapshot[strategy]
		if st.Pulls == 0 {
			continue
		}
		obs.TotalPulls += st.Pulls
		obs.StrategiesTested++
		if st.Pulls >= MinSampleForRanking && st.EffectivenessScore > leaderScore {
			cand := strategy
			leader = &cand
			leaderScore = st.EffectivenessScore
		}
	}
	obs.Leader = leader
	obs.LeaderScore = leaderScore
	return obs
}

// think derives an informational rationale from the observation. It never
// influences selection.
func (s *CoachService) think(obs Observation) string {
	if obs.Phase == domain.PhaseExploring {
		return fmt.Sprintf("Still exploring: %d of %d strategies tried across %d check-ins.",
			obs.StrategiesTested, len(domain.Strategies()), obs.TotalPulls)
	}
	if obs.Leader != nil {
		return fmt.Sprintf("%s leads with effectiveness %.2f over %d check-ins; exploiting with occasional exploration.",
			obs.Leader.DisplayName(), obs.LeaderScore, obs.TotalPulls)
	}
	return fmt.Sprintf("Optimizing over %d check-ins with no clear leader yet.", obs.TotalPulls)
}

// act calls the generator under a bounded timeout, substituting the
// strategy-keyed canned message when generation fails.
func (s *CoachService) act(ctx context.Context, strategy domain.Strategy, goal *domain.Goal) (message string, fallback bool) {
	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	message, err := s.llm.GenerateMessage(genCtx, domain.GenerateRequest{
		Strategy:        strategy,
		GoalTitle:       goal.Title,
		GoalDescription: goal.Description,
		CurrentStreak:   goal.CurrentStreak,
	})
	if err != nil || message == "" {
		s.logger.Warn("message generation failed, using fallback",
			zap.String("strategy", string(strategy)),
			zap.Error(err),
		)
		return domain.FallbackMessage(strategy, goal.Title), true
	}
	return message, false
}

// evaluate judges feedback sentiment under a bounded timeout, defaulting to
// neutral when feedback is absent or the judge fails.
func (s *CoachService) evaluate(ctx context.Context, iv *domain.Intervention, feedback string) domain.Sentiment {
	if feedback == "" {
		return domain.SentimentNeutral
	}

	judgeCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	judgment, err := s.llm.JudgeSentiment(judgeCtx, iv.Message, feedback)
	if err != nil {
		s.logger.Warn("sentiment judging failed, defaulting to neutral",
			zap.String("intervention_id", iv.ID.String()),
			zap.Error(err),
		)
		return domain.SentimentNeutral
	}
	if !domain.ValidSentiment(string(judgment.Sentiment)) {
		return domain.SentimentNeutral
	}
	return judgment.Sentiment
}

// trace records one loop stage, fire-and-forget: sink failures are logged and
// never affect the request.
func (s *CoachService) trace(ctx context.Context, userID, goalID uuid.UUID, interventionID *uuid.UUID, stage domain.LoopStage, detail map[string]any) {
	if s.traces == nil {
		return
	}
	ev := &domain.TraceEvent{
		UserID:         userID,
		GoalID:         goalID,
		InterventionID: interventionID,
		Stage:          stage,
		Detail:         detail,
	}
	if err := s.traces.Create(ctx, ev); err != nil {
		s.logger.Warn("failed to record trace event",
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
	}
}
