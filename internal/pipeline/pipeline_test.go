package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/pipeline"
)

type funcStage struct {
	name string
	fn   func(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error)
}

func (s funcStage) Name() string { return s.name }

func (s funcStage) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	return s.fn(ctx, flights)
}

func appendStage(name string, trace *[]string) pipeline.Stage {
	return funcStage{name: name, fn: func(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
		*trace = append(*trace, name)
		return append(flights, &entity.Flight{}), nil
	}}
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	var trace []string
	p := pipeline.New("test", nil, appendStage("a", &trace), appendStage("b", &trace))

	out, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"a", "b"}, trace)
	assert.Equal(t, []string{"a", "b"}, p.Stages())
}

func TestPipeline_StopsAtFirstError(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	failing := funcStage{name: "fail", fn: func(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
		return nil, boom
	}}
	p := pipeline.New("test", nil, appendStage("a", &trace), failing, appendStage("c", &trace))

	_, err := p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, trace)
}

func TestPipeline_CancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var trace []string
	cancelling := funcStage{name: "cancel", fn: func(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
		cancel()
		return flights, nil
	}}
	p := pipeline.New("test", nil, cancelling, appendStage("after", &trace))

	_, err := p.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, trace)
}
