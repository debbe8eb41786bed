package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/provider"
)

var errEmptyOutput = errors.New("model returned empty output")

// Translate returns the Korean rendering of text.
//
// A memo hit wins regardless of kind or verify. Free text and unverified
// titles take one model call. Verified titles take two samples and, when
// they disagree, an arbitration call. New results are saved to the memo;
// failures return text unchanged and save nothing.
func (t *Translator) Translate(ctx context.Context, text string, kind domain.TranslationKind, verify bool) string {
	if text == "" {
		return ""
	}

	rec, err := t.memo.Find(ctx, text)
	if err == nil {
		return rec.TranslatedText
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.log.WarnContext(ctx, "translation memo lookup failed", slog.String("error", err.Error()))
	}

	out, err := t.produce(ctx, text, kind, verify)
	if err != nil {
		t.logFailure(ctx, "translation failed", kind, err)
		return text
	}

	saved, err := t.memo.Save(ctx, text, out)
	if err != nil {
		t.log.WarnContext(ctx, "translation not memoized",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return out
	}
	return saved.TranslatedText
}

// Retranslate asks the model again without consulting the memo and
// overwrites the stored record. Unlike Translate it reports failures and
// leaves the memo untouched when one occurs.
func (t *Translator) Retranslate(ctx context.Context, text string, kind domain.TranslationKind, verify bool) (*domain.Translation, error) {
	if text == "" {
		return nil, domain.NewValidationError("source_text", "required")
	}

	out, err := t.produce(ctx, text, kind, verify)
	if err != nil {
		return nil, fmt.Errorf("retranslate: %w", err)
	}

	rec, err := t.memo.Refresh(ctx, text, out)
	if err != nil {
		return nil, fmt.Errorf("retranslate: %w", err)
	}
	return rec, nil
}

// NormalizeSearchQuery rewrites a free-form search term into the form the
// catalog matches best. Results are not memoized.
func (t *Translator) NormalizeSearchQuery(ctx context.Context, term string) string {
	if strings.TrimSpace(term) == "" {
		return term
	}
	out, err := t.complete(ctx, searchPrompt(term), arbiterTemperature)
	if err != nil {
		t.logFailure(ctx, "search query normalization failed", "search", err)
		return term
	}
	return out
}

func (t *Translator) produce(ctx context.Context, text string, kind domain.TranslationKind, verify bool) (string, error) {
	switch {
	case kind == domain.TranslationKindFreeText:
		return t.complete(ctx, freeTextPrompt(text), sampleTemperature)
	case kind == domain.TranslationKindTitle && !verify:
		return t.complete(ctx, titlePrompt(text), sampleTemperature)
	case kind == domain.TranslationKindTitle:
		return t.consensus(ctx, text)
	default:
		return "", fmt.Errorf("unknown translation kind %q", kind)
	}
}

// consensus samples the title twice and arbitrates on disagreement.
func (t *Translator) consensus(ctx context.Context, title string) (string, error) {
	prompt := titlePrompt(title)

	var samples [2]string
	g, gctx := errgroup.WithContext(ctx)
	for i := range samples {
		g.Go(func() error {
			out, err := t.complete(gctx, prompt, sampleTemperature)
			if err != nil {
				return err
			}
			samples[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if samples[0] == samples[1] {
		return samples[0], nil
	}

	t.log.DebugContext(ctx, "title samples disagree, arbitrating",
		slog.String("first", samples[0]),
		slog.String("second", samples[1]),
	)

	verdict, err := t.complete(ctx, arbiterPrompt(samples[0], samples[1]), arbiterTemperature)
	if err != nil {
		return "", err
	}
	if out := lastLine(verdict); out != "" {
		return out, nil
	}
	return "", errEmptyOutput
}

// complete runs one model call on its own session.
func (t *Translator) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	sess, err := t.models.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			t.log.DebugContext(ctx, "model session close failed", slog.String("error", cerr.Error()))
		}
	}()

	raw, err := sess.Complete(ctx, prompt, temperature)
	if err != nil {
		return "", err
	}
	out := clean(raw)
	if out == "" {
		return "", errEmptyOutput
	}
	return out, nil
}

func (t *Translator) logFailure(ctx context.Context, msg string, kind domain.TranslationKind, err error) {
	if errors.Is(err, provider.ErrDisabled) {
		return
	}
	t.log.WarnContext(ctx, msg,
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	)
}

// clean trims whitespace, drops double quotes and any wrapping quote pair.
func clean(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
	for _, pair := range [][2]string{{"'", "'"}, {"“", "”"}, {"‘", "’"}, {"「", "」"}, {"『", "』"}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}

// lastLine returns the last line of s that is non-empty once cleaned.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := clean(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
