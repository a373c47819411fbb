package hashtag

import (
	"regexp"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain tag",
			input:    "iot",
			expected: "iot",
		},
		{
			name:     "leading hash",
			input:    "#iot",
			expected: "iot",
		},
		{
			name:     "surrounding whitespace and punctuation",
			input:    "  my tag! ",
			expected: "my_tag",
		},
		{
			name:     "only hashes",
			input:    "###",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "internal whitespace run",
			input:    "home   automation",
			expected: "home_automation",
		},
		{
			name:     "mixed case and digits preserved",
			input:    "#Go2024",
			expected: "Go2024",
		},
		{
			name:     "dash and underscore preserved",
			input:    "my-tag_ok",
			expected: "my-tag_ok",
		},
		{
			name:     "unicode stripped",
			input:    "café",
			expected: "caf",
		},
		{
			name:     "only one leading hash stripped",
			input:    "##iot",
			expected: "iot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"#iot", "iot", "  my tag! ", "###", "", "a b\tc", "#Go2024", "café news",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_CharacterSet(t *testing.T) {
	allowed := regexp.MustCompile(`^[A-Za-z0-9_\-]*$`)

	inputs := []string{
		"#iot", "  spaces here ", "w@ird&chars!", "tabs\tand\nnewlines", "ümläut",
	}

	for _, in := range inputs {
		got := Normalize(in)
		if !allowed.MatchString(got) {
			t.Errorf("Normalize(%q) = %q contains disallowed characters", in, got)
		}
	}
}

func TestNormalize_HashEquivalence(t *testing.T) {
	if Normalize("#iot") != Normalize("iot") {
		t.Errorf("Normalize(#iot) = %q, Normalize(iot) = %q, want equal", Normalize("#iot"), Normalize("iot"))
	}
	if Normalize("#iot") != "iot" {
		t.Errorf("Normalize(#iot) = %q, want iot", Normalize("#iot"))
	}
}

func TestValid(t *testing.T) {
	if !Valid("#iot") {
		t.Error("Valid(#iot) = false, want true")
	}
	if Valid("###") {
		t.Error("Valid(###) = true, want false")
	}
	if Valid("   ") {
		t.Error("Valid(whitespace) = true, want false")
	}
}

func TestTopic(t *testing.T) {
	if got := Topic("iot"); got != "twitter/iot" {
		t.Errorf("Topic(iot) = %q, want twitter/iot", got)
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		wantTag   string
		wantValid bool
	}{
		{
			name:      "valid topic",
			topic:     "twitter/iot",
			wantTag:   "iot",
			wantValid: true,
		},
		{
			name:      "wrong prefix",
			topic:     "news/iot",
			wantValid: false,
		},
		{
			name:      "prefix only",
			topic:     "twitter/",
			wantValid: false,
		},
		{
			name:      "empty",
			topic:     "",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := Tag(tt.topic)
			if ok != tt.wantValid {
				t.Fatalf("Tag(%q) ok = %v, want %v", tt.topic, ok, tt.wantValid)
			}
			if ok && tag != tt.wantTag {
				t.Errorf("Tag(%q) = %q, want %q", tt.topic, tag, tt.wantTag)
			}
		})
	}
}

func TestTopicTagRoundTrip(t *testing.T) {
	for _, tag := range []string{"iot", "news", "my_tag", "a-b"} {
		got, ok := Tag(Topic(tag))
		if !ok || got != tag {
			t.Errorf("Tag(Topic(%q)) = %q, %v; want %q, true", tag, got, ok, tag)
		}
	}
}
