package transcript

import "testing"

func TestGroup_SinglePromptAndReply(t *testing.T) {
	events := decode(t,
		`{"type":"user","timestamp":"2025-01-01T10:00:00.000Z","message":{"role":"user","content":"Hello"}}`,
		`{"type":"assistant","timestamp":"2025-01-01T10:00:05.000Z","message":{"role":"assistant","content":[{"type":"text","text":"Hi!"}]}}`,
	)

	convs := Group(events)

	if len(convs) != 1 {
		t.Fatalf("len(convs) = %d, want 1", len(convs))
	}
	c := convs[0]
	if c.UserText != "Hello" {
		t.Errorf("UserText = %q, want Hello", c.UserText)
	}
	if c.Timestamp != "2025-01-01T10:00:00.000Z" {
		t.Errorf("Timestamp = %q, want root timestamp", c.Timestamp)
	}
	if c.IsContinuation {
		t.Error("IsContinuation = true, want false")
	}
	if len(c.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2", len(c.Messages))
	}
}

func TestGroup_ToolResultRelayExtendsConversation(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Run the tests"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"1","input":{}}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"ok"}]}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"All green"}]}}`,
	)

	convs := Group(events)

	if len(convs) != 1 {
		t.Fatalf("len(convs) = %d, want 1 (relay must not split)", len(convs))
	}
	if len(convs[0].Messages) != 4 {
		t.Errorf("len(Messages) = %d, want 4", len(convs[0].Messages))
	}
}

func TestGroup_SecondPromptStartsNewConversation(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"First"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"done"}]}}`,
		`{"type":"user","message":{"role":"user","content":"Second"}}`,
	)

	convs := Group(events)

	if len(convs) != 2 {
		t.Fatalf("len(convs) = %d, want 2", len(convs))
	}
	if convs[0].UserText != "First" || convs[1].UserText != "Second" {
		t.Errorf("user texts = %q, %q", convs[0].UserText, convs[1].UserText)
	}
	if len(convs[0].Messages) != 2 || len(convs[1].Messages) != 1 {
		t.Errorf("message counts = %d, %d, want 2, 1", len(convs[0].Messages), len(convs[1].Messages))
	}
}

func TestGroup_MixedContentPromptStartsNewConversation(t *testing.T) {
	// A user event carrying both text and a tool_result counts as a genuine
	// prompt: the human typed something alongside the relay.
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"First"}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"text","text":"also do this"},{"type":"tool_result","content":"out"}]}}`,
	)

	convs := Group(events)

	if len(convs) != 2 {
		t.Fatalf("len(convs) = %d, want 2", len(convs))
	}
	if convs[1].UserText != "also do this" {
		t.Errorf("UserText = %q, want %q", convs[1].UserText, "also do this")
	}
}

func TestGroup_ImplicitRootFromLeadingToolResult(t *testing.T) {
	// Transcript that begins mid-tool-exchange.
	events := decode(t,
		`{"type":"user","timestamp":"2025-01-01T09:59:59.000Z","message":{"role":"user","content":[{"type":"tool_result","content":"leftover output"}]}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"continuing"}]}}`,
	)

	convs := Group(events)

	if len(convs) != 1 {
		t.Fatalf("len(convs) = %d, want 1", len(convs))
	}
	if !convs[0].IsContinuation {
		t.Error("IsContinuation = false, want true for implicit root")
	}
	if convs[0].UserText != "" {
		t.Errorf("UserText = %q, want empty", convs[0].UserText)
	}
}

func TestGroup_ImplicitRootFromNonUserEvent(t *testing.T) {
	events := decode(t,
		`{"type":"summary","summary":"Session recap"}`,
		`{"type":"user","message":{"role":"user","content":"Hello"}}`,
	)

	convs := Group(events)

	if len(convs) != 2 {
		t.Fatalf("len(convs) = %d, want 2", len(convs))
	}
	if !convs[0].IsContinuation {
		t.Error("leading summary should open an implicit continuation conversation")
	}
	if convs[1].IsContinuation || convs[1].UserText != "Hello" {
		t.Errorf("convs[1] = %+v, want genuine Hello root", convs[1])
	}
}

func TestGroup_SummaryPassthroughContentIsEmptyObject(t *testing.T) {
	// Summary records carry no message object; their passthrough entry must
	// still hold a JSON object, not null.
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Hello"}}`,
		`{"type":"summary","summary":"Session recap"}`,
	)

	convs := Group(events)
	if len(convs) != 1 {
		t.Fatalf("len(convs) = %d, want 1", len(convs))
	}

	rec := convs[0].Messages[1]
	if rec.Type != "summary" {
		t.Fatalf("Type = %q, want summary", rec.Type)
	}
	if string(rec.Content) != "{}" {
		t.Errorf("Content = %s, want {}", rec.Content)
	}
}

func TestGroup_Empty(t *testing.T) {
	if convs := Group(nil); len(convs) != 0 {
		t.Errorf("Group(nil) = %v, want empty", convs)
	}
}
