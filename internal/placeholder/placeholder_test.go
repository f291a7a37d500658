package placeholder_test

import (
	"testing"

	"github.com/kamalkashyapp/fanout/internal/dispatch"
	"github.com/kamalkashyapp/fanout/internal/placeholder"
)

func TestApply_ReplacesEverywhere(t *testing.T) {
	t.Parallel()
	in := []dispatch.Descriptor{
		{
			Method:  "POST",
			URL:     "http://example.com/send?to={{subject}}",
			Body:    "target={{subject}}&count=1",
			Headers: map[string]string{"X-Subject": "{{subject}}", "Accept": "*/*"},
		},
	}

	out := placeholder.Apply(in, "alice", "")

	if out[0].URL != "http://example.com/send?to=alice" {
		t.Errorf("url: %q", out[0].URL)
	}
	if out[0].Body != "target=alice&count=1" {
		t.Errorf("body: %q", out[0].Body)
	}
	if out[0].Headers["X-Subject"] != "alice" {
		t.Errorf("header: %q", out[0].Headers["X-Subject"])
	}
	if out[0].Headers["Accept"] != "*/*" {
		t.Errorf("untemplated header changed: %q", out[0].Headers["Accept"])
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	in := []dispatch.Descriptor{
		{URL: "http://a/{{subject}}", Headers: map[string]string{"K": "{{subject}}"}},
	}

	_ = placeholder.Apply(in, "bob", "")

	if in[0].URL != "http://a/{{subject}}" {
		t.Errorf("input url mutated: %q", in[0].URL)
	}
	if in[0].Headers["K"] != "{{subject}}" {
		t.Errorf("input header mutated: %q", in[0].Headers["K"])
	}
}

func TestApply_CustomToken(t *testing.T) {
	t.Parallel()
	in := []dispatch.Descriptor{{URL: "http://a/__who__"}}
	out := placeholder.Apply(in, "carol", "__who__")
	if out[0].URL != "http://a/carol" {
		t.Errorf("url: %q", out[0].URL)
	}
}

func TestContainsToken(t *testing.T) {
	t.Parallel()
	templated := []dispatch.Descriptor{{URL: "http://a", Body: "x={{subject}}"}}
	literal := []dispatch.Descriptor{{URL: "http://a", Body: "x=1"}}

	if !placeholder.ContainsToken(templated, "") {
		t.Error("expected templated batch to contain token")
	}
	if placeholder.ContainsToken(literal, "") {
		t.Error("expected literal batch to be token free")
	}
}
