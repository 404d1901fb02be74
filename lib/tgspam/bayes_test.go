package tgspam

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaiveBayes(t *testing.T) {
	nb := newNaiveBayes()
	assert.False(t, nb.trained())
	nb.learn(
		sample{class: classHam, tokens: []string{"tall", "handsome", "rich"}},
		sample{class: classSpam, tokens: []string{"bald", "poor", "ugly"}},
	)
	assert.True(t, nb.trained())

	tests := []struct {
		name   string
		tokens []string
		spam   float64
	}{
		{"tokens match ham class", []string{"tall", "handsome", "rich"}, 0.1111},
		{"tokens partial match ham class", []string{"tall", "handsome", "happy"}, 0.2},
		{"tokens match spam class", []string{"bald", "poor", "ugly"}, 0.8888},
		{"tokens match both classes", []string{"average", "content", "handsome", "ugly"}, 0.5},
		{"no tokens", nil, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.spam, nb.spamProbability(tt.tokens), 0.001)
		})
	}
}

func TestNaiveBayes_LongText(t *testing.T) {
	nb := newNaiveBayes()
	nb.learn(sample{class: classHam, tokens: []string{"привет"}}, sample{class: classSpam, tokens: []string{"заработок"}})
	tokens := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		tokens = append(tokens, "заработок")
	}
	p := nb.spamProbability(tokens)
	assert.False(t, math.IsNaN(p))
	assert.InDelta(t, 1.0, p, 0.001)
}

func TestTokenize(t *testing.T) {
	excluded := map[string]struct{}{"the": {}}
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"the quick brown fox", []string{"quick", "brown", "fox"}},
		{"Hello, hello! HELLO?", []string{"hello"}},
		{"ok 👍 заработок😀 (удаленно)", []string{"заработок", "удаленно"}},
		{"a bb ccc", []string{"ccc"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in, excluded), tt.in)
	}
}

func TestBayesModel_LoadSamples(t *testing.T) {
	m := NewBayesModel("", "")
	assert.Equal(t, "bayes", m.Name())

	_, err := m.Score(context.Background(), "text")
	assert.EqualError(t, err, "model is not trained")

	spam := strings.NewReader("заработок на дому без вложений\nкупите дешево прямо сейчас\nудаленная работа высокий доход\n")
	ham := strings.NewReader("привет как дела\nвстреча завтра в офисе\n\nкто идет обедать сегодня\n")
	lr, err := m.LoadSamples(strings.NewReader("без\n"), spam, ham)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{ExcludedTokens: 1, SpamSamples: 3, HamSamples: 3}, lr)

	p, err := m.Score(context.Background(), "купите дешево, заработок на дому")
	require.NoError(t, err)
	assert.Greater(t, p, 0.8)

	p, err = m.Score(context.Background(), "привет, кто идет обедать?")
	require.NoError(t, err)
	assert.Less(t, p, 0.2)
}

func TestBayesModel_LoadSamplesRequiresBothClasses(t *testing.T) {
	m := NewBayesModel("", "")
	_, err := m.LoadSamples(nil, strings.NewReader("купите дешево\n"), strings.NewReader(""))
	assert.EqualError(t, err, "both spam and ham samples required")
	_, err = m.Score(context.Background(), "text")
	assert.Error(t, err, "failed load keeps the model untrained")
}

func TestBayesModel_Load(t *testing.T) {
	dir := t.TempDir()
	spamFile, hamFile := filepath.Join(dir, "spam.txt"), filepath.Join(dir, "ham.txt")

	m := NewBayesModel(spamFile, hamFile)
	err := m.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open spam samples")

	require.NoError(t, os.WriteFile(spamFile, []byte("купите дешево прямо сейчас\nзаработок на дому\n"), 0o600))
	require.NoError(t, os.WriteFile(hamFile, []byte("привет как дела\nвстреча завтра\n"), 0o600))
	require.NoError(t, m.Load(context.Background()))

	p, err := m.Score(context.Background(), "купите дешево")
	require.NoError(t, err)
	assert.Greater(t, p, 0.5)

	m.ExcludedFile = filepath.Join(dir, "missing.txt")
	err = m.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open excluded tokens")
}

func TestBayesModel_Watch(t *testing.T) {
	dir := t.TempDir()
	spamFile, hamFile := filepath.Join(dir, "spam.txt"), filepath.Join(dir, "ham.txt")
	require.NoError(t, os.WriteFile(spamFile, []byte("купите дешево прямо сейчас\n"), 0o600))
	require.NoError(t, os.WriteFile(hamFile, []byte("привет как дела\n"), 0o600))

	m := NewBayesModel(spamFile, hamFile)
	require.NoError(t, m.Load(context.Background()))
	p, err := m.Score(context.Background(), "бесплатные криптовалюты")
	require.NoError(t, err)
	assert.Less(t, p, 0.5, "unknown tokens")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Watch(ctx)
	}()
	time.Sleep(100 * time.Millisecond) // let watcher start

	require.NoError(t, os.WriteFile(spamFile, []byte("купите дешево прямо сейчас\nбесплатные криптовалюты\n"), 0o600))
	assert.Eventually(t, func() bool {
		p, err := m.Score(context.Background(), "бесплатные криптовалюты")
		return err == nil && p > 0.5
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher not stopped")
	}
}
