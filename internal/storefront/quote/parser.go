package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// size limits on model output
const (
	maxContentLen  = 32 * 1024
	maxSubjectLen  = 200
	maxBodyLen     = 8 * 1024
	maxRecommended = 3
)

type reply struct {
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Recommended []string `json:"recommended"`
}

// parseReply extracts the JSON quote object from a model reply. Code fences and
// leading chatter around the object are tolerated.
func parseReply(content string) (r reply, err error) {
	defer func() {
		if p := recover(); p != nil {
			logx.Error().Str("component", "quote_parser").Msgf("panic recovered: %v", p)
			err = errx.New(fmt.Errorf("quote parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			r = reply{}
		}
	}()

	if len(content) > maxContentLen {
		return reply{}, fmt.Errorf("reply too large: %d bytes", len(content))
	}
	if !utf8.ValidString(content) {
		return reply{}, fmt.Errorf("reply is not valid utf8")
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return reply{}, fmt.Errorf("reply has no json object: %q", snippet(content))
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &r); err != nil {
		return reply{}, fmt.Errorf("decode reply: %w", err)
	}

	r.Subject = strings.TrimSpace(r.Subject)
	r.Body = strings.TrimSpace(r.Body)
	if r.Body == "" {
		return reply{}, fmt.Errorf("reply body is empty")
	}
	if len(r.Body) > maxBodyLen {
		return reply{}, fmt.Errorf("reply body too large: %d bytes", len(r.Body))
	}
	if utf8.RuneCountInString(r.Subject) > maxSubjectLen {
		r.Subject = string([]rune(r.Subject)[:maxSubjectLen])
	}

	recs := r.Recommended[:0]
	for _, name := range r.Recommended {
		if name = strings.TrimSpace(name); name != "" && len(recs) < maxRecommended {
			recs = append(recs, name)
		}
	}
	r.Recommended = recs
	return r, nil
}

func snippet(s string) string {
	const n = 120
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
