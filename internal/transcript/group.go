package transcript

import "encoding/json"

// Group partitions events into conversations. A genuine user prompt closes
// the open conversation and roots a new one; tool-result relays and
// non-user events extend whatever is open. A transcript that starts
// mid-exchange gets an implicit root marked as a continuation.
//
// The fold keeps a single "open conversation" accumulator; conversations
// come out in the order their roots appeared.
func Group(events []Event) []Conversation {
	var out []Conversation
	var open *Conversation

	flush := func() {
		if open != nil {
			out = append(out, finalize(*open))
			open = nil
		}
	}

	for _, ev := range events {
		if ev.Kind == "user" && !ev.IsToolResultOnly() {
			flush()
			open = &Conversation{
				UserText:  ev.LeadingText(),
				Timestamp: ev.Timestamp,
				events:    []Event{ev},
			}
			continue
		}

		if open == nil {
			open = &Conversation{
				Timestamp:      ev.Timestamp,
				IsContinuation: true,
				events:         []Event{ev},
			}
			continue
		}
		open.events = append(open.events, ev)
	}

	flush()
	return out
}

// finalize computes the conversation's stats and passthrough messages from
// its own events. Events without a message object (summary records) get an
// empty object so "content" never marshals as null.
func finalize(c Conversation) Conversation {
	c.Stats = reduce(c.events)
	c.Messages = make([]MessageRecord, 0, len(c.events))
	for _, ev := range c.events {
		content := ev.RawMessage
		if len(content) == 0 {
			content = json.RawMessage(`{}`)
		}
		c.Messages = append(c.Messages, MessageRecord{
			Type:      ev.Kind,
			Timestamp: ev.Timestamp,
			Content:   content,
		})
	}
	return c
}
