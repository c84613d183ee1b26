package weebly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The platform is loose with scalar types: IDs arrive as numbers or
// numeric strings, booleans as true/false, 0/1 or "1", timestamps as
// unix seconds in either representation. The Flex types absorb that.

// FlexInt64 decodes a JSON number or numeric string
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = FlexInt64(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexInt64(v)
	return nil
}

// Int64 returns the plain value
func (f FlexInt64) Int64() int64 {
	return int64(f)
}

// FlexBool decodes a JSON bool, number or string representation
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	switch string(data) {
	case "true", "1":
		*f = true
		return nil
	case "false", "0":
		*f = false
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexBool(v)
	return nil
}

// Bool returns the plain value
func (f FlexBool) Bool() bool {
	return bool(f)
}

// FlexTime decodes a timestamp sent as unix seconds (number or string)
// or as an RFC 3339 / "2006-01-02 15:04:05" string
type FlexTime time.Time

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexTime(time.Time{})
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" {
		*f = FlexTime(time.Time{})
		return nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexTime(time.Unix(secs, 0).UTC())
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			*f = FlexTime(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

// TimePtr returns the value as *time.Time, nil when zero
func (f *FlexTime) TimePtr() *time.Time {
	if f == nil {
		return nil
	}
	t := time.Time(*f)
	if t.IsZero() {
		return nil
	}
	return &t
}

// errorEnvelope is the platform error body, {"error":{"message":...}}
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type userPayload struct {
	UserID FlexInt64 `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

type sitePayload struct {
	SiteID      FlexInt64 `json:"site_id"`
	UserID      FlexInt64 `json:"user_id"`
	SiteTitle   string    `json:"site_title"`
	Domain      string    `json:"domain"`
	IsPublished FlexBool  `json:"is_published"`
	// language is occasionally not a string at all
	Language json.RawMessage `json:"language"`
}

type pagePayload struct {
	PageID    FlexInt64  `json:"page_id"`
	Title     string     `json:"title"`
	PageURL   string     `json:"page_url"`
	Hidden    FlexBool   `json:"hidden"`
	PageOrder FlexInt64  `json:"page_order"`
	ParentID  *FlexInt64 `json:"parent_id"`
}

type blogPayload struct {
	BlogID FlexInt64 `json:"blog_id"`
	PageID FlexInt64 `json:"page_id"`
	Title  string    `json:"title"`
}

type postPayload struct {
	PostID      FlexInt64 `json:"post_id"`
	PostTitle   string    `json:"post_title"`
	CreatedDate *FlexTime `json:"created_date"`
}

type postDetailPayload struct {
	postPayload
	UpdatedDate    *FlexTime       `json:"updated_date"`
	PostBody       string          `json:"post_body"`
	PostLink       string          `json:"post_link"`
	PostURL        string          `json:"post_url"`
	ShareMessage   string          `json:"share_message"`
	SEOTitle       string          `json:"seo_title"`
	SEODescription string          `json:"seo_description"`
	Tags           json.RawMessage `json:"tags"`
}

// tagMap tolerates the empty tag set arriving as [] instead of {}
func (p *postDetailPayload) tagMap() map[string]string {
	tags := map[string]string{}
	if len(p.Tags) == 0 {
		return tags
	}
	if err := json.Unmarshal(p.Tags, &tags); err != nil {
		return map[string]string{}
	}
	return tags
}

type productPayload struct {
	ProductID FlexInt64 `json:"product_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
}

type productDetailPayload struct {
	productPayload
	ShortDescription string          `json:"short_description"`
	Options          []optionPayload `json:"options"`
}

type optionPayload struct {
	OptionID    FlexInt64 `json:"product_option_id"`
	Name        string    `json:"name"`
	ChoiceOrder []string  `json:"choice_order"`
}

type categoryPayload struct {
	CategoryID       FlexInt64  `json:"category_id"`
	Name             string     `json:"name"`
	ParentCategoryID *FlexInt64 `json:"parent_category_id"`
}

type deauthorizePayload struct {
	Status string `json:"status"`
}
