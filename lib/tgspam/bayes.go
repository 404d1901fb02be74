package tgspam

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/forPelevin/gomoji"
)

// based on the code from https://github.com/RadhiFadlillah/go-bayesian/blob/master/classifier.go

// sampleClass is a class of a training sample
type sampleClass string

const (
	classSpam sampleClass = "spam"
	classHam  sampleClass = "ham"
)

// sample is a set of unique tokens with a known class
type sample struct {
	class  sampleClass
	tokens []string
}

// naiveBayes keeps token frequencies learned from samples, not thread-safe
type naiveBayes struct {
	tokenFreq   map[string]map[sampleClass]int
	logPriors   map[sampleClass]float64
	nSamples    map[sampleClass]int
	nTokens     map[sampleClass]int
	nAllSamples int
}

func newNaiveBayes() naiveBayes {
	return naiveBayes{
		tokenFreq: make(map[string]map[sampleClass]int),
		logPriors: make(map[sampleClass]float64),
		nSamples:  make(map[sampleClass]int),
		nTokens:   make(map[sampleClass]int),
	}
}

func (nb *naiveBayes) learn(samples ...sample) {
	nb.nAllSamples += len(samples)
	for _, s := range samples {
		nb.nSamples[s.class]++
		for _, token := range s.tokens {
			nb.nTokens[s.class]++
			if _, ok := nb.tokenFreq[token]; !ok {
				nb.tokenFreq[token] = make(map[sampleClass]int)
			}
			nb.tokenFreq[token][s.class]++
		}
	}
	for class, n := range nb.nSamples {
		nb.logPriors[class] = math.Log(float64(n) / float64(nb.nAllSamples))
	}
}

// trained is true if both classes have samples
func (nb *naiveBayes) trained() bool {
	return nb.nSamples[classSpam] > 0 && nb.nSamples[classHam] > 0
}

// spamProbability returns posterior probability of spam class for unique tokens,
// using laplace smoothing and softmax over log posteriors.
func (nb *naiveBayes) spamProbability(tokens []string) float64 {
	nVocabulary := len(nb.tokenFreq)
	posteriors := make(map[sampleClass]float64, len(nb.logPriors))
	for class, prior := range nb.logPriors {
		posteriors[class] = prior
		for _, token := range tokens {
			n := nb.tokenFreq[token][class]
			posteriors[class] += math.Log(float64(n+1) / float64(nb.nTokens[class]+nVocabulary))
		}
	}

	// subtract max before exp to keep long texts from underflowing
	maxLog := math.Inf(-1)
	for _, lp := range posteriors {
		maxLog = math.Max(maxLog, lp)
	}
	sum := 0.0
	for _, lp := range posteriors {
		sum += math.Exp(lp - maxLog)
	}
	return math.Exp(posteriors[classSpam]-maxLog) / sum
}

// BayesModel is a naive bayes model trained on spam and ham samples files, one sample per line.
// Samples reloaded by Watch on files change. Thread-safe.
type BayesModel struct {
	SpamFile     string
	HamFile      string
	ExcludedFile string // optional list of tokens to ignore, one per line

	lock     sync.RWMutex
	nb       naiveBayes
	excluded map[string]struct{}
}

// LoadResult is a result of loading samples.
type LoadResult struct {
	ExcludedTokens int
	SpamSamples    int
	HamSamples     int
}

// NewBayesModel makes an untrained model for samples files, call Load to train
func NewBayesModel(spamFile, hamFile string) *BayesModel {
	return &BayesModel{SpamFile: spamFile, HamFile: hamFile, nb: newNaiveBayes(), excluded: map[string]struct{}{}}
}

// Name of the model
func (b *BayesModel) Name() string { return "bayes" }

// Load reads samples files and retrains the model
func (b *BayesModel) Load(_ context.Context) error {
	spam, err := os.Open(b.SpamFile)
	if err != nil {
		return fmt.Errorf("failed to open spam samples: %w", err)
	}
	defer spam.Close()
	ham, err := os.Open(b.HamFile)
	if err != nil {
		return fmt.Errorf("failed to open ham samples: %w", err)
	}
	defer ham.Close()

	var excl io.Reader = strings.NewReader("")
	if b.ExcludedFile != "" {
		fh, err := os.Open(b.ExcludedFile)
		if err != nil {
			return fmt.Errorf("failed to open excluded tokens: %w", err)
		}
		defer fh.Close()
		excl = fh
	}

	lr, err := b.LoadSamples(excl, spam, ham)
	if err != nil {
		return err
	}
	log.Printf("[INFO] loaded samples: spam=%d, ham=%d, excluded tokens=%d", lr.SpamSamples, lr.HamSamples, lr.ExcludedTokens)
	return nil
}

// LoadSamples resets the model and trains it on samples from readers
func (b *BayesModel) LoadSamples(exclReader, spamReader, hamReader io.Reader) (LoadResult, error) {
	excluded := map[string]struct{}{}
	for t := range readLines(exclReader) {
		excluded[strings.ToLower(t)] = struct{}{}
	}

	nb := newNaiveBayes()
	lr := LoadResult{ExcludedTokens: len(excluded)}
	samples := []sample{}
	for line := range readLines(spamReader) {
		samples = append(samples, sample{class: classSpam, tokens: tokenize(line, excluded)})
		lr.SpamSamples++
	}
	for line := range readLines(hamReader) {
		samples = append(samples, sample{class: classHam, tokens: tokenize(line, excluded)})
		lr.HamSamples++
	}
	nb.learn(samples...)
	if !nb.trained() {
		return lr, errors.New("both spam and ham samples required")
	}

	b.lock.Lock()
	b.nb, b.excluded = nb, excluded
	b.lock.Unlock()
	return lr, nil
}

// Score returns spam probability of the text
func (b *BayesModel) Score(_ context.Context, text string) (float64, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	if !b.nb.trained() {
		return 0, errors.New("model is not trained")
	}
	return b.nb.spamProbability(tokenize(text, b.excluded)), nil
}

// Watch reloads samples on files change, blocks until ctx is done
func (b *BayesModel) Watch(ctx context.Context) {
	onChange := func() error { return b.Load(ctx) }
	files := []string{b.SpamFile, b.HamFile}
	if b.ExcludedFile != "" {
		files = append(files, b.ExcludedFile)
	}
	watchFiles(ctx, onChange, files...)
}

// tokenize splits text into unique lowercase tokens, cleaned of emoji and punctuation.
// Tokens shorter than 3 runes and excluded tokens are dropped.
func tokenize(text string, excluded map[string]struct{}) []string {
	seen := map[string]struct{}{}
	res := []string{}
	for _, token := range strings.Fields(text) {
		token = strings.ToLower(strings.Trim(gomoji.RemoveEmojis(token), ".,!?-:;()#\"'«»"))
		if len([]rune(token)) < 3 {
			continue
		}
		if _, ok := excluded[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		res = append(res, token)
	}
	return res
}

// readLines iterates over non-empty trimmed lines of a reader
func readLines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		if r == nil {
			return
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Printf("[WARN] failed to read samples, error=%v", err)
		}
	}
}
