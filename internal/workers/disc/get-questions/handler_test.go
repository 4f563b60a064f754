// internal/workers/disc/get-questions/handler_test.go
package getquestions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disc-workers/internal/common/config"
	"disc-workers/internal/common/logger"
	"disc-workers/internal/disc"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second},
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, disc.QuestionCount(), out.Count)
	require.Len(t, out.Questions, out.Count)
	for i, q := range out.Questions {
		assert.NotEmpty(t, q.ID, "question %d", i)
		assert.True(t, q.Category.Valid())
		for _, opt := range q.Options {
			assert.NotEmpty(t, opt)
		}
	}
}

func TestHandler_Execute_ReturnsCopy(t *testing.T) {
	h := createTestHandler(t)

	first, err := h.Execute(context.Background(), nil)
	require.NoError(t, err)
	first.Questions[0].Text = "changed"

	second, err := h.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second.Questions[0].Text)
}

func TestOutput_JSONShape(t *testing.T) {
	h := createTestHandler(t)
	out, err := h.Execute(context.Background(), nil)
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, disc.QuestionCount(), decoded["count"])
	first := decoded["questions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "q1", first["id"])
	assert.Len(t, first["options"], disc.OptionCount)
}

func TestNewHandler_Config(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1}})
	assert.Error(t, err)

	h, err := NewHandler(HandlerOptions{AppConfig: &config.Config{
		Workers: map[string]config.WorkerConfig{TaskType: {Enabled: true, MaxJobsActive: 3, Timeout: 1000}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, h.config.MaxJobsActive)
	assert.Equal(t, time.Second, h.config.Timeout)
}
