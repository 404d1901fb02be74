package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/go-playground/validator/v10"
	"github.com/jessevdk/go-flags"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/tg-moderator/app/events"
	"github.com/umputun/tg-moderator/app/storage"
	"github.com/umputun/tg-moderator/app/storage/engine"
	"github.com/umputun/tg-moderator/app/webapi"
	"github.com/umputun/tg-moderator/lib/approved"
	"github.com/umputun/tg-moderator/lib/executor"
	"github.com/umputun/tg-moderator/lib/intake"
	"github.com/umputun/tg-moderator/lib/normalize"
	"github.com/umputun/tg-moderator/lib/policy"
	"github.com/umputun/tg-moderator/lib/spamcheck"
	"github.com/umputun/tg-moderator/lib/tgspam"
)

type options struct {
	Telegram struct {
		Token   string        `long:"token" env:"TOKEN" description:"telegram bot token" validate:"required"`
		Group   string        `long:"group" env:"GROUP" description:"group name/id" validate:"required"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"http client timeout for telegram"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	TestingIDs []int64 `long:"testing-id" env:"TESTING_ID" env-delim:"," description:"extra chat ids to moderate, for testing"`

	Model struct {
		Type        string        `long:"type" env:"TYPE" default:"inference" choice:"inference" choice:"bayes" choice:"openai" choice:"gemini" description:"classification model" validate:"oneof=inference bayes openai gemini"`
		URL         string        `long:"url" env:"URL" default:"https://api-inference.huggingface.co/models/NeuroSpaceX/ruSpamNS_v1" description:"inference endpoint" validate:"omitempty,url"`
		Token       string        `long:"token" env:"TOKEN" description:"inference endpoint token"`
		Name        string        `long:"name" env:"NAME" default:"NeuroSpaceX/ruSpamNS_v1" description:"inference model name"`
		SpamLabel   string        `long:"spam-label" env:"SPAM_LABEL" default:"LABEL_1" description:"label of spam class"`
		Timeout     time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"single inference call timeout" validate:"gte=0"`
		MaxTokens   int           `long:"max-tokens" env:"MAX_TOKENS" default:"512" description:"max input length in tokens" validate:"gte=1"`
		Concurrency int           `long:"concurrency" env:"CONCURRENCY" default:"4" description:"max simultaneous inference calls" validate:"gte=1,lte=256"`
		WarmUp      string        `long:"warm-up" env:"WARM_UP" default:"привет" description:"text scored on start to check the model, skipped if empty"`
	} `group:"model" namespace:"model" env-namespace:"MODEL"`

	OpenAI struct {
		Token             string `long:"token" env:"TOKEN" description:"openai token"`
		APIBase           string `long:"apibase" env:"API_BASE" description:"custom openai api base url" validate:"omitempty,url"`
		Model             string `long:"model" env:"MODEL" default:"gpt-4o-mini" description:"openai model"`
		Prompt            string `long:"prompt" env:"PROMPT" description:"openai system prompt, if empty uses builtin default"`
		MaxTokensResponse int    `long:"max-tokens-response" env:"MAX_TOKENS_RESPONSE" default:"1024" description:"openai max tokens in response" validate:"gte=1"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	Gemini struct {
		Token             string `long:"token" env:"TOKEN" description:"gemini token"`
		Model             string `long:"model" env:"MODEL" default:"gemini-2.0-flash" description:"gemini model"`
		Prompt            string `long:"prompt" env:"PROMPT" description:"gemini system prompt, if empty uses builtin default"`
		MaxTokensResponse int    `long:"max-tokens-response" env:"MAX_TOKENS_RESPONSE" default:"1024" description:"gemini max tokens in response" validate:"gte=1,lte=65536"`
	} `group:"gemini" namespace:"gemini" env-namespace:"GEMINI"`

	Files struct {
		SamplesSpamFile  string `long:"samples-spam" env:"SAMPLES_SPAM" default:"data/spam-samples.txt" description:"spam samples"`
		SamplesHamFile   string `long:"samples-ham" env:"SAMPLES_HAM" default:"data/ham-samples.txt" description:"ham samples"`
		ExcludeTokenFile string `long:"exclude-tokens" env:"EXCLUDE_TOKENS" description:"exclude tokens file"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	LowThreshold     float64       `long:"low-threshold" env:"LOW_THRESHOLD" default:"0.5" description:"min spam probability to flag" validate:"gte=0,lte=1,ltefield=HighThreshold"`
	HighThreshold    float64       `long:"high-threshold" env:"HIGH_THRESHOLD" default:"0.8" description:"min spam probability to remove" validate:"gte=0,lte=1"`
	RestrictDuration time.Duration `long:"restrict-duration" env:"RESTRICT_DURATION" default:"0s" description:"restriction of established senders, 0 means permanent ban" validate:"gte=0"`

	Dedup struct {
		TTL     time.Duration `long:"ttl" env:"TTL" default:"24h" description:"how long processed messages are remembered" validate:"gt=0"`
		MaxKeys int           `long:"max-keys" env:"MAX_KEYS" default:"100000" description:"max remembered messages, in-memory store only" validate:"gte=1"`
	} `group:"dedup" namespace:"dedup" env-namespace:"DEDUP"`

	Moderation struct {
		Retries     int           `long:"retries" env:"RETRIES" default:"3" description:"attempts per moderation action" validate:"gte=1,lte=20"`
		Backoff     time.Duration `long:"backoff" env:"BACKOFF" default:"500ms" description:"initial delay between attempts" validate:"gte=0"`
		Timeout     time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"single platform call timeout" validate:"gte=0"`
		Grace       time.Duration `long:"grace" env:"GRACE" default:"30s" description:"shutdown grace period for in-flight messages" validate:"gte=0"`
		MaxInFlight int           `long:"max-in-flight" env:"MAX_IN_FLIGHT" default:"64" description:"max messages processed at the same time" validate:"gte=0"`
	} `group:"moderation" namespace:"moderation" env-namespace:"MODERATION"`

	Newcomers struct {
		Window        time.Duration `long:"window" env:"WINDOW" default:"168h" description:"how long a joined user is a newcomer" validate:"gte=0"`
		FirstMessages int           `long:"first-messages" env:"FIRST_MESSAGES" default:"1" description:"clean messages required for approval, 0 checks all messages" validate:"gte=0"`
	} `group:"newcomers" namespace:"newcomers" env-namespace:"NEWCOMERS"`

	Paranoid bool `long:"paranoid" env:"PARANOID" description:"paranoid mode, check all messages"`

	DB struct {
		URL     string        `long:"url" env:"URL" description:"database url (file.db, sqlite://, postgres://), in-memory if not set"`
		GID     string        `long:"gid" env:"GID" default:"tg-moderator" description:"group id in database"`
		Cleanup time.Duration `long:"cleanup" env:"CLEANUP" default:"1h" description:"interval of expired records cleanup" validate:"gte=0"`
	} `group:"db" namespace:"db" env-namespace:"DB"`

	Server struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable web server"`
		ListenAddr string `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string `long:"auth" env:"AUTH" description:"basic auth password for user tg-moderator"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable spam rotated logs"`
		FileName   string `long:"file" env:"FILE"  default:"tg-moderator.log" description:"location of spam log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	StripLinks   bool `long:"strip-links" env:"STRIP_LINKS" description:"remove links before classification"`
	StripSymbols bool `long:"strip-symbols" env:"STRIP_SYMBOLS" description:"remove symbols before classification"`

	Dry   bool `long:"dry" env:"DRY" description:"dry mode, no deletes and restrictions"`
	Dbg   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	TGDbg bool `long:"tg-dbg" env:"TG_DEBUG" description:"telegram debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("tg-moderator %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Telegram.Token, opts.Model.Token, opts.OpenAI.Token, opts.Gemini.Token, opts.Server.AuthPasswd)

	if err := validateOptions(opts); err != nil {
		log.Printf("[ERROR] invalid options: %v", err)
		os.Exit(2)
	}
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// validateOptions checks options values and cross-field rules not expressible with tags
func validateOptions(opts options) error {
	if err := validator.New().Struct(opts); err != nil {
		return fmt.Errorf("options validation failed: %w", err)
	}
	switch opts.Model.Type {
	case "inference":
		if opts.Model.URL == "" {
			return &spamcheck.ConfigError{Field: "model url", Reason: "required for inference model"}
		}
	case "bayes":
		if opts.Files.SamplesSpamFile == "" || opts.Files.SamplesHamFile == "" {
			return &spamcheck.ConfigError{Field: "samples files", Reason: "both spam and ham samples required for bayes model"}
		}
	case "openai":
		if opts.OpenAI.Token == "" && opts.OpenAI.APIBase == "" {
			return &spamcheck.ConfigError{Field: "openai token", Reason: "required for openai model"}
		}
	case "gemini":
		if opts.Gemini.Token == "" {
			return &spamcheck.ConfigError{Field: "gemini token", Reason: "required for gemini model"}
		}
	}
	return nil
}

func execute(ctx context.Context, opts options) error {
	if opts.Dry {
		log.Print("[WARN] dry mode, no actual deletes and restrictions")
	}

	// make telegram bot
	tbAPI, err := tbapi.NewBotAPIWithClient(opts.Telegram.Token, tbapi.APIEndpoint, &http.Client{Timeout: opts.Telegram.Timeout})
	if err != nil {
		return fmt.Errorf("can't make telegram bot, %w", err)
	}
	tbAPI.Debug = opts.TGDbg

	// make classifier, refuse to start if the model is not usable
	model, err := makeModel(ctx, opts)
	if err != nil {
		return fmt.Errorf("can't make model, %w", err)
	}
	classifier, err := tgspam.NewClassifier(ctx, model, tgspam.ClassifierConfig{MaxTokens: opts.Model.MaxTokens,
		Concurrency: opts.Model.Concurrency, Timeout: opts.Model.Timeout, WarmUp: opts.Model.WarmUp})
	if err != nil {
		return fmt.Errorf("can't make classifier, %w", err)
	}
	if bm, ok := model.(*tgspam.BayesModel); ok {
		go bm.Watch(ctx)
	}

	pol, err := policy.New(policy.Config{LowThreshold: opts.LowThreshold, HighThreshold: opts.HighThreshold,
		RestrictDuration: opts.RestrictDuration})
	if err != nil {
		return fmt.Errorf("can't make decision policy, %w", err)
	}

	exec, err := executor.New(&events.TelegramPlatform{TbAPI: tbAPI}, executor.Config{Retries: opts.Moderation.Retries,
		Backoff: opts.Moderation.Backoff, CallTimeout: opts.Moderation.Timeout, Dry: opts.Dry})
	if err != nil {
		return fmt.Errorf("can't make moderation executor, %w", err)
	}

	st, err := makeStores(ctx, opts)
	if err != nil {
		return fmt.Errorf("can't make storage, %w", err)
	}
	defer st.close()

	tracker, err := approved.NewTracker(ctx, approved.TrackerConfig{Window: opts.Newcomers.Window,
		FirstMessages: opts.Newcomers.FirstMessages, Paranoid: opts.Paranoid}, st.users)
	if err != nil {
		return fmt.Errorf("can't make senders tracker, %w", err)
	}

	// make spam logger
	loggerWr, err := makeSpamLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make spam log writer, %w", err)
	}
	defer loggerWr.Close()

	normalizer := normalize.New(normalize.Options{StripLinks: opts.StripLinks, StripSymbols: opts.StripSymbols})
	in, err := intake.New(intake.Params{
		Records:     st.records,
		Normalizer:  normalizer,
		Classifier:  classifier,
		Policy:      pol,
		Executor:    exec,
		Senders:     tracker,
		SpamLogger:  makeSpamLogger(loggerWr),
		MaxInFlight: opts.Moderation.MaxInFlight,
	})
	if err != nil {
		return fmt.Errorf("can't make intake, %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if opts.Server.Enabled {
		var recent webapi.Records = in
		if st.moderations != nil {
			recent = st.moderations
		}
		srv := webapi.NewServer(webapi.Config{ListenAddr: opts.Server.ListenAddr, Version: revision,
			Normalizer: normalizer, Classifier: classifier, Policy: pol, Records: recent, Users: tracker,
			AuthPasswd: opts.Server.AuthPasswd})
		g.Go(func() error { return srv.Run(gctx) })
	}

	if st.moderations != nil && opts.DB.Cleanup > 0 {
		g.Go(func() error {
			cleanupRecords(gctx, st.moderations, opts.DB.Cleanup)
			return nil
		})
	}

	tgListener := events.TelegramListener{
		TbAPI:      tbAPI,
		Submitter:  in,
		Newcomers:  tracker,
		Group:      opts.Telegram.Group,
		TestingIDs: opts.TestingIDs,
	}
	log.Printf("[DEBUG] telegram listener config: {group: %s, testing: %v, dry: %v}",
		tgListener.Group, tgListener.TestingIDs, opts.Dry)

	// run telegram listener and event processor loop
	g.Go(func() error {
		if err := tgListener.Do(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("telegram listener failed, %w", err)
		}
		return nil
	})

	err = g.Wait()
	if serr := in.Shutdown(opts.Moderation.Grace); serr != nil {
		log.Printf("[WARN] intake shutdown: %v", serr)
	}
	return err
}

// makeModel creates the classification model for options, models loaded by the classifier
func makeModel(ctx context.Context, opts options) (tgspam.Model, error) {
	switch opts.Model.Type {
	case "inference", "":
		log.Printf("[INFO] inference model %s at %s", opts.Model.Name, opts.Model.URL)
		return tgspam.NewInferenceModel(&http.Client{Timeout: opts.Model.Timeout}, tgspam.InferenceConfig{
			URL: opts.Model.URL, Token: opts.Model.Token, ModelName: opts.Model.Name, SpamLabel: opts.Model.SpamLabel}), nil
	case "bayes":
		log.Printf("[INFO] bayes model, samples %s and %s", opts.Files.SamplesSpamFile, opts.Files.SamplesHamFile)
		bm := tgspam.NewBayesModel(opts.Files.SamplesSpamFile, opts.Files.SamplesHamFile)
		bm.ExcludedFile = opts.Files.ExcludeTokenFile
		return bm, nil
	case "openai":
		log.Printf("[INFO] openai model %s", opts.OpenAI.Model)
		cfg := openai.DefaultConfig(opts.OpenAI.Token)
		if opts.OpenAI.APIBase != "" {
			cfg.BaseURL = opts.OpenAI.APIBase
		}
		return tgspam.NewOpenAIModel(openai.NewClientWithConfig(cfg), tgspam.OpenAIConfig{Model: opts.OpenAI.Model,
			SystemPrompt: opts.OpenAI.Prompt, MaxTokensResponse: opts.OpenAI.MaxTokensResponse}), nil
	case "gemini":
		log.Printf("[INFO] gemini model %s", opts.Gemini.Model)
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.Gemini.Token, Backend: genai.BackendGeminiAPI})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return tgspam.NewGeminiModel(client.Models, tgspam.GeminiConfig{Model: opts.Gemini.Model,
			SystemPrompt: opts.Gemini.Prompt, MaxOutputTokens: int32(opts.Gemini.MaxTokensResponse)}), nil
	}
	return nil, &spamcheck.ConfigError{Field: "model type", Reason: fmt.Sprintf("unknown %q", opts.Model.Type)}
}

// stores combines dedup records and approved users storage
type stores struct {
	records     intake.Records
	moderations *storage.Moderations // nil for in-memory store
	users       approved.UserStorage // nil for in-memory store
	db          *engine.SQL
}

func (s stores) close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		log.Printf("[WARN] can't close database, %v", err)
	}
}

// makeStores makes database backed stores if db url is set, in-memory records otherwise
func makeStores(ctx context.Context, opts options) (stores, error) {
	if opts.DB.URL == "" {
		log.Printf("[INFO] no database, in-memory dedup store for %v, max %d keys", opts.Dedup.TTL, opts.Dedup.MaxKeys)
		return stores{records: intake.NewMemoryRecords(opts.Dedup.TTL, opts.Dedup.MaxKeys)}, nil
	}

	db, err := engine.New(ctx, opts.DB.URL, opts.DB.GID)
	if err != nil {
		return stores{}, fmt.Errorf("can't make db engine, %w", err)
	}
	log.Printf("[INFO] database %s, gid %q", db.Type(), db.GID())

	mods, err := storage.NewModerations(ctx, db, opts.Dedup.TTL)
	if err != nil {
		_ = db.Close()
		return stores{}, fmt.Errorf("can't make moderations storage, %w", err)
	}
	users, err := storage.NewApprovedUsers(ctx, db)
	if err != nil {
		_ = db.Close()
		return stores{}, fmt.Errorf("can't make approved users storage, %w", err)
	}
	return stores{records: mods, moderations: mods, users: users, db: db}, nil
}

// cleanupRecords removes expired moderation records every interval until ctx is done
func cleanupRecords(ctx context.Context, mods *storage.Moderations, interval time.Duration) {
	log.Printf("[DEBUG] cleanup moderation records every %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DEBUG] cleanup moderation records stopped")
			return
		case <-ticker.C:
			n, err := mods.Cleanup(ctx)
			if err != nil {
				log.Printf("[WARN] can't cleanup moderation records, %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[DEBUG] removed %d expired moderation records", n)
			}
		}
	}
}

// makeSpamLogger creates spam logger to keep reports about flagged and removed messages
// it writes json lines to the provided writer
func makeSpamLogger(wr io.Writer) intake.SpamLogger {
	return intake.SpamLoggerFunc(func(rec spamcheck.Record) {
		text := strings.ReplaceAll(rec.Text, "\n", " ")
		text = strings.TrimSpace(text)
		log.Printf("[INFO] %s message %s from %v, probability %.2f", rec.Action, rec.Key, rec.From, rec.Probability)
		log.Printf("[DEBUG] spam message: %s", text)
		m := struct {
			TimeStamp   string  `json:"ts"`
			ChatID      int64   `json:"chat_id"`
			MessageID   int     `json:"msg_id"`
			DisplayName string  `json:"display_name"`
			UserName    string  `json:"user_name"`
			UserID      int64   `json:"user_id"`
			Text        string  `json:"text"`
			Probability float64 `json:"probability"`
			Action      string  `json:"action"`
			Status      string  `json:"status"`
			Error       string  `json:"error,omitempty"`
		}{
			TimeStamp:   time.Now().In(time.Local).Format(time.RFC3339),
			ChatID:      rec.Key.ChatID,
			MessageID:   rec.Key.MessageID,
			DisplayName: rec.From.DisplayName,
			UserName:    rec.From.UserName,
			UserID:      rec.From.ID,
			Text:        text,
			Probability: rec.Probability,
			Action:      rec.Action.String(),
			Status:      string(rec.Status),
			Error:       rec.Error,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makeSpamLogWriter creates spam log writer to keep reports about spam messages
// it parses options and makes lumberjack logger with rotation
func makeSpamLogWriter(opts options) (accessLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse converts size with optional k, m, g or t suffix to bytes
func sizeParse(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	secrets = nonEmpty(secrets)
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

// nonEmpty drops empty secrets
func nonEmpty(secrets []string) []string {
	res := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
