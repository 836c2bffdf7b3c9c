package interview

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"intake-call-service/internal/callstate"
	"intake-call-service/internal/common/logger"
	"intake-call-service/internal/common/metrics"
	"intake-call-service/internal/dialogue"
	"intake-call-service/internal/summary"
	"intake-call-service/internal/twiml"
)

// Synthesizer converts prompt text to playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioStore persists synthesized audio and serves it back by filename.
type AudioStore interface {
	Save(audio []byte) (string, error)
	Open(filename string) ([]byte, error)
}

// Closer produces the terminal spoken remark for a completed call.
type Closer interface {
	Closing(ctx context.Context, assistanceText string) string
}

// Controller executes the interview step table over the telephony
// gateway's webhooks. It holds no per-call state: everything a step needs
// arrives in the request and leaves in the continuation reference.
type Controller struct {
	publicBaseURL string
	resolver      *dialogue.Resolver
	synth         Synthesizer
	store         AudioStore
	closer        Closer
	dispatcher    summary.Dispatcher
	logger        logger.Logger
	now           func() time.Time
	steps         []*Step
}

func NewController(
	publicBaseURL string,
	resolver *dialogue.Resolver,
	synth Synthesizer,
	store AudioStore,
	closer Closer,
	dispatcher summary.Dispatcher,
	log logger.Logger,
) *Controller {
	return &Controller{
		publicBaseURL: publicBaseURL,
		resolver:      resolver,
		synth:         synth,
		store:         store,
		closer:        closer,
		dispatcher:    dispatcher,
		logger:        log.With(map[string]interface{}{"component": "interview"}),
		now:           time.Now,
		steps:         buildSteps(),
	}
}

// Register attaches every route to the mux.
func (c *Controller) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleHealth)
	mux.HandleFunc("GET /static/{filename}", c.handleStatic)

	// The entry step also accepts GET so the gateway's initial webhook
	// configuration can be verified from a browser.
	mux.HandleFunc("GET /voice", c.handleEntry)
	mux.HandleFunc("POST /voice", c.handleEntry)

	for _, step := range c.steps {
		if step.Terminal {
			mux.HandleFunc("POST "+step.Route, c.finishHandler(step))
			continue
		}
		mux.HandleFunc("POST "+step.Route, c.stepHandler(step))
	}
}

func (c *Controller) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (c *Controller) handleStatic(w http.ResponseWriter, r *http.Request) {
	audio, err := c.store.Open(r.PathValue("filename"))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Error("static asset read failed", map[string]interface{}{
				"filename": r.PathValue("filename"),
				"error":    err.Error(),
			})
		}
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	_, _ = w.Write(audio)
}

// handleEntry greets the caller and gathers toward the first step. No
// inbound utterance exists yet; if the gather captures nothing the
// trailing Say runs and the call ends (Abandoned).
func (c *Controller) handleEntry(w http.ResponseWriter, r *http.Request) {
	metrics.CallsStarted.Inc()
	c.logger.Info("call started", map[string]interface{}{
		"caller":  r.FormValue("From"),
		"callSid": r.FormValue("CallSid"),
	})

	first := c.steps[0]

	resp := twiml.NewResponse()
	g := resp.GatherSpeech(first.Route)
	c.speakIntoGather(r.Context(), g, first.Question)
	resp.Say(noResponseText)

	c.write(w, resp)
}

// stepHandler builds the webhook handler for one non-terminal step.
func (c *Controller) stepHandler(step *Step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(metrics.StepDuration.WithLabelValues(step.Name))
		defer timer.ObserveDuration()

		ctx := r.Context()
		state := callstate.FromValues(r.URL.Query())
		state.CallerNumber = r.FormValue("From")
		utterance := r.FormValue("SpeechResult")

		res := c.resolver.Resolve(ctx, utterance, step.Kind)
		step.Fold(&state, res)
		metrics.StepsProcessed.WithLabelValues(step.Name, string(res.Outcome)).Inc()

		c.logger.Info("step processed", map[string]interface{}{
			"step":    step.Name,
			"caller":  state.CallerNumber,
			"outcome": string(res.Outcome),
		})

		resp := twiml.NewResponse()
		if res.Acknowledgement != "" {
			c.speakInto(ctx, resp, res.Acknowledgement)
		}

		next := step.Next(res)
		if next == nil {
			c.speakInto(ctx, resp, rejectionText)
			resp.Hangup()
			metrics.CallsCompleted.WithLabelValues("rejected").Inc()
			c.write(w, resp)
			return
		}

		action := next.Route
		if ref := callstate.Encode(state); ref != "" {
			action += "?" + ref
		}

		g := resp.GatherSpeech(action)
		c.speakIntoGather(ctx, g, next.Question)
		resp.Say(noResponseText)

		c.write(w, resp)
	}
}

// finishHandler builds the terminal handler: it records the assistance
// request, assembles the summary, dispatches it synchronously and then
// speaks the closing remark. Dispatch happens before the response is
// written so the record is sent even if the caller hangs up immediately.
func (c *Controller) finishHandler(step *Step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(metrics.StepDuration.WithLabelValues(step.Name))
		defer timer.ObserveDuration()

		ctx := r.Context()
		state := callstate.FromValues(r.URL.Query())
		state.CallerNumber = r.FormValue("From")
		utterance := r.FormValue("SpeechResult")

		// Classified but not gated: a short assistance request is still
		// recorded as heard.
		res := c.resolver.Resolve(ctx, utterance, step.Kind)
		assistance := res.Answer
		metrics.StepsProcessed.WithLabelValues(step.Name, string(res.Outcome)).Inc()

		record := summary.BuildRecord(state, assistance, c.now())

		if err := c.dispatcher.Dispatch(ctx, record); err != nil {
			// The caseworker did not get the record; alert the operator
			// but close the call gracefully for the caller.
			metrics.UpstreamFailures.WithLabelValues("email", "DISPATCH_FAILED").Inc()
			c.logger.Error("summary dispatch failed", map[string]interface{}{
				"caller": record.CallerNumber,
				"error":  err.Error(),
			})
		}

		closing := c.closer.Closing(ctx, assistance)

		resp := twiml.NewResponse()
		c.speakInto(ctx, resp, closing)
		resp.Hangup()

		metrics.CallsCompleted.WithLabelValues("completed").Inc()
		c.logger.Info("call completed", map[string]interface{}{
			"caller": record.CallerNumber,
		})

		c.write(w, resp)
	}
}

// prompt synthesizes text and returns the public playback URL. ok is false
// when synthesis or storage failed and the caller should hear a scripted
// Say instead.
func (c *Controller) prompt(ctx context.Context, text string) (string, bool) {
	audio, err := c.synth.Synthesize(ctx, text)
	if err != nil {
		c.logger.Warn("synthesis failed, falling back to scripted prompt", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}

	filename, err := c.store.Save(audio)
	if err != nil {
		c.logger.Error("audio store write failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}

	return c.publicBaseURL + "/static/" + filename, true
}

func (c *Controller) speakInto(ctx context.Context, resp *twiml.Response, text string) {
	if url, ok := c.prompt(ctx, text); ok {
		resp.Play(url)
		return
	}
	resp.Say(text)
}

func (c *Controller) speakIntoGather(ctx context.Context, g *twiml.Gather, text string) {
	if url, ok := c.prompt(ctx, text); ok {
		g.Play(url)
		return
	}
	g.Say(text)
}

// write renders the voice-response document. Every path resolves to a
// valid document; a render failure still answers with a bare Say so the
// gateway never sees a raw error.
func (c *Controller) write(w http.ResponseWriter, resp *twiml.Response) {
	out, err := resp.Render()
	if err != nil {
		c.logger.Error("twiml render failed", map[string]interface{}{
			"error": err.Error(),
		})
		fallback := twiml.NewResponse()
		fallback.Say("We are sorry, something went wrong. Please call again later.").Hangup()
		out, _ = fallback.Render()
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	_, _ = w.Write([]byte(out))
}
