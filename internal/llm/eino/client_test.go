package eino

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
)

type fakeModel struct {
	got   []*schema.Message
	reply *schema.Message
	err   error
}

func (f *fakeModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.got = in
	return f.reply, f.err
}

func (f *fakeModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not used")
}

func TestComplete_SingleUserMessage(t *testing.T) {
	fm := &fakeModel{reply: schema.AssistantMessage(`{"hotel_name":"X"}`, nil)}
	c := NewWithModel(fm, Config{Model: "gpt-4", Temperature: 0.3}, nil)

	out, err := c.Complete(context.Background(), "PROMPT")
	require.NoError(t, err)
	assert.Equal(t, `{"hotel_name":"X"}`, out)
	require.Len(t, fm.got, 1)
	assert.Equal(t, schema.User, fm.got[0].Role)
	assert.Equal(t, "PROMPT", fm.got[0].Content)
	assert.Equal(t, "eino", c.Provider())
}

func TestComplete_ErrorIsExternalService(t *testing.T) {
	c := NewWithModel(&fakeModel{err: errors.New("dial tcp: refused")}, Config{}, nil)
	_, err := c.Complete(context.Background(), "p")
	require.ErrorIs(t, err, common.ErrExternalService)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestNewClient_KeepsZeroTemperature(t *testing.T) {
	c, err := NewClient(context.Background(), Config{APIKey: "sk-test", Temperature: 0}, nil)
	require.NoError(t, err)
	assert.Zero(t, c.Temperature())
	assert.Equal(t, "gpt-4", c.Model())
}
