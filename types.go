package analyticord

import (
	"bytes"
	"encoding/json"
	"net/url"
)

// Bot is a bot as described by the login, botinfo and botlist endpoints.
type Bot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner,omitempty"`
	// Fields holds every field of the server object, including the ones above.
	Fields map[string]any `json:"-"`
}

// UnmarshalJSON keeps the raw object in Fields and renders id, name and
// owner as strings whatever their JSON type; numbers keep every digit. A
// value that is not an object decodes to an empty Bot.
func (b *Bot) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*b = Bot{}
		return nil
	}
	if fields == nil {
		*b = Bot{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Bot{
		ID:     rawString(raw["id"]),
		Name:   rawString(raw["name"]),
		Owner:  rawString(raw["owner"]),
		Fields: fields,
	}
	return nil
}

// rawString returns a JSON string's value, or the literal text of any other
// value. null and missing values are empty.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// decodeLoginBody accepts any 200 body: the token is valid regardless of
// what the server says about the bot.
func decodeLoginBody(body []byte) *Bot {
	var bot Bot
	if err := json.Unmarshal(body, &bot); err != nil {
		return &Bot{}
	}
	return &bot
}

// Record is one row returned by GetData. Its shape depends on the query.
type Record map[string]any

// SubmitResult is the response to a successful submission.
type SubmitResult struct {
	ID string `json:"ID"`
}

// VerifyURL returns the page where the submission can be checked.
func (r *SubmitResult) VerifyURL(baseURL string) string {
	return baseURL + "/api/verified?id=" + url.QueryEscape(r.ID)
}
