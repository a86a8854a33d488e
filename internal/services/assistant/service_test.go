package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuator/internal/adapters/memory"
	"valuator/internal/domain"
	"valuator/internal/logger"
	"valuator/internal/ports"
	"valuator/internal/services/session"
)

type fakeGateway struct {
	mu    sync.Mutex
	asked []domain.GatewayRequest
	err   error
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Ask(_ context.Context, req domain.GatewayRequest) (domain.GatewayAnswer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.asked = append(g.asked, req)
	if g.err != nil {
		return domain.GatewayAnswer{}, g.err
	}
	return domain.GatewayAnswer{
		Text: "answer to " + req.Message,
		GroundingMetadata: &domain.GroundingMetadata{GroundingChunks: []domain.GroundingChunk{
			{Web: &domain.WebSource{URI: "https://example.com/a", Title: "A"}},
		}},
	}, nil
}

func (g *fakeGateway) GutCheck(context.Context, domain.GatewayRequest) (domain.GutCheckResult, error) {
	return domain.GutCheckResult{}, errors.New("not used")
}

type captureQueue struct {
	jobs []ports.AssistJob
	err  error
}

func (q *captureQueue) Enqueue(_ context.Context, job ports.AssistJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func setup(t *testing.T, gw ports.Gateway, opts ...Option) (*Service, *session.Service, string) {
	t.Helper()
	sessions := session.NewService(memory.NewSessionStore(), logger.NewNoOpLogger())
	sess, err := sessions.Create(context.Background())
	require.NoError(t, err)
	return New(sessions, gw, logger.NewNoOpLogger(), opts...), sessions, sess.ID
}

func TestSendHandledCommand(t *testing.T) {
	gw := &fakeGateway{}
	svc, sessions, id := setup(t, gw)

	reply, err := svc.Send(context.Background(), id, "I want to pitch my startup", false)
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Equal(t, domain.RoleUser, reply.Messages[0].Role)
	assert.Equal(t, domain.RoleAssistant, reply.Messages[1].Role)
	assert.Equal(t, domain.StepAskingSector, reply.Conversation.Step)
	assert.False(t, reply.Pending)
	assert.Empty(t, gw.asked)

	sess, err := sessions.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
	assert.Equal(t, domain.StepAskingSector, sess.Conversation.Step)
	assert.Zero(t, sess.DeferredSeq)
}

func TestSendDeferredAnswersInline(t *testing.T) {
	gw := &fakeGateway{}
	svc, _, id := setup(t, gw)

	reply, err := svc.Send(context.Background(), id, "how do investors view fintech today?", true)
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Equal(t, "answer to how do investors view fintech today?", reply.Messages[1].Content)
	require.NotNil(t, reply.Messages[1].GroundingMetadata)
	assert.Equal(t, uint64(1), reply.Seq)

	require.Len(t, gw.asked, 1)
	assert.Equal(t, domain.SectorSaaS, gw.asked[0].Context.Sector)
	require.NotNil(t, gw.asked[0].Context.VCInputs)
	assert.Equal(t, 12.0, gw.asked[0].Context.VCInputs.ExitMultiple)
}

func TestSendGatewayFailureUsesApology(t *testing.T) {
	svc, _, id := setup(t, &fakeGateway{err: ports.ErrGatewayUnavailable})

	reply, err := svc.Send(context.Background(), id, "how is the market?", true)
	require.NoError(t, err)
	require.Len(t, reply.Messages, 2)
	assert.Equal(t, domain.UnreachableReply, reply.Messages[1].Content)
}

func TestSendQueuesAndDropsStaleReplies(t *testing.T) {
	gw := &fakeGateway{}
	q := &captureQueue{}
	svc, sessions, id := setup(t, gw, WithQueue(q))
	ctx := context.Background()

	first, err := svc.Send(ctx, id, "first question", false)
	require.NoError(t, err)
	assert.True(t, first.Pending)
	require.Len(t, first.Messages, 1)

	second, err := svc.Send(ctx, id, "second question", false)
	require.NoError(t, err)
	assert.True(t, second.Pending)
	require.Len(t, q.jobs, 2)

	require.NoError(t, svc.Process(ctx, q.jobs[1]))
	require.NoError(t, svc.Process(ctx, q.jobs[0]))

	msgs, conv, err := svc.Transcript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepIdle, conv.Step)
	require.Len(t, msgs, 3)
	assert.Equal(t, "answer to second question", msgs[2].Content)

	sess, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), sess.DeferredSeq)
}

func TestSendFallsBackInlineWhenQueueRejects(t *testing.T) {
	gw := &fakeGateway{}
	svc, _, id := setup(t, gw, WithQueue(&captureQueue{err: errors.New("full")}))

	reply, err := svc.Send(context.Background(), id, "anything new?", false)
	require.NoError(t, err)
	assert.False(t, reply.Pending)
	assert.Len(t, reply.Messages, 2)
}

func TestSendValidation(t *testing.T) {
	svc, _, _ := setup(t, &fakeGateway{})

	_, err := svc.Send(context.Background(), "whatever", "   ", false)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.Send(context.Background(), "missing", "hello", false)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
