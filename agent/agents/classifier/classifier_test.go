package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

type fakeGateway struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGateway) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestClassifyJSONDecision(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeGateway{
		response: `{"agent": "financial", "reasoning": "asks about cost"}`,
	})

	if got := c.Classify(context.Background(), "how much will it cost?", false); got != contractx.AgentFinancial {
		t.Fatalf("expected financial, got %s", got)
	}
}

func TestClassifyFencedJSON(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeGateway{
		response: "```json\n{\"agent\": \"diagram\"}\n```",
	})

	if got := c.Classify(context.Background(), "draw the architecture", false); got != contractx.AgentDiagram {
		t.Fatalf("expected diagram, got %s", got)
	}
}

func TestClassifyBareAgentName(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeGateway{response: "  Solution_Architect \n"})

	if got := c.Classify(context.Background(), "design the system", false); got != contractx.AgentSolutionArchitect {
		t.Fatalf("expected solution_architect, got %s", got)
	}
}

func TestClassifyUnknownAgentFallsBack(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeGateway{response: `{"agent": "marketing"}`})

	if got := c.Classify(context.Background(), "hello", false); got != contractx.AgentContent {
		t.Fatalf("expected content fallback, got %s", got)
	}
	if got := c.Classify(context.Background(), "hello", true); got != contractx.AgentStrategist {
		t.Fatalf("expected strategist fallback with document, got %s", got)
	}
}

func TestClassifyGarbageFallsBack(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeGateway{response: "I think you should ask someone else."})

	if got := c.Classify(context.Background(), "hello", false); got != contractx.AgentContent {
		t.Fatalf("expected content fallback, got %s", got)
	}
}

func TestClassifyGatewayErrorFallsBack(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeGateway{err: errors.New("connection refused")})

	if got := c.Classify(context.Background(), "hello", false); got != contractx.AgentContent {
		t.Fatalf("expected content fallback, got %s", got)
	}
	if got := c.Classify(context.Background(), "hello", true); got != contractx.AgentStrategist {
		t.Fatalf("expected strategist fallback with document, got %s", got)
	}
}

func TestClassifyTruncatesLongQueries(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{response: `{"agent": "content"}`}
	c := newTestClassifier(t, gw)

	long := strings.Repeat("x", 2*maxRoutingQueryChars)
	c.Classify(context.Background(), long, false)

	if len(gw.prompts) != 1 {
		t.Fatalf("expected one routing call, got %d", len(gw.prompts))
	}
	if count := strings.Count(gw.prompts[0], "x"); count != maxRoutingQueryChars {
		t.Fatalf("expected query truncated to %d chars, got %d", maxRoutingQueryChars, count)
	}
}

func TestParseAgentNameTotality(t *testing.T) {
	t.Parallel()

	for _, agent := range contractx.SectionOrder {
		got, ok := contractx.ParseAgentName(strings.ToUpper(string(agent)))
		if !ok || got != agent {
			t.Fatalf("ParseAgentName(%q) = %q, %v", agent, got, ok)
		}
	}
	if _, ok := contractx.ParseAgentName("project_manager"); ok {
		t.Fatal("expected unknown name rejected")
	}
}

func newTestClassifier(t *testing.T, gw *fakeGateway) *RoutingClassifier {
	t.Helper()
	c, err := New(gw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}
