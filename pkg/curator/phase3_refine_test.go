package curator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefinePhaseNeverShortensOriginalPrompt(t *testing.T) {
	gateway := &fakeGateway{responses: map[string]string{
		"prompt_refinement": `{"refined_prompt":"short","technical_constraints":[]}`,
	}}
	phase := &refinePhase{gateway: gateway}
	st := &State{Request: Request{Prompt: "a much longer original prompt that should be preserved"}}

	require.NoError(t, phase.Run(context.Background(), st))
	require.Equal(t, st.Request.Prompt, st.RefinedPrompt)
}

func TestRefinePhaseKeepsLongerRefinement(t *testing.T) {
	refined := "a refined prompt that is longer than the original one"
	gateway := &fakeGateway{responses: map[string]string{
		"prompt_refinement": `{"refined_prompt":"` + refined + `","technical_constraints":["must use go 1.22"]}`,
	}}
	phase := &refinePhase{gateway: gateway}
	st := &State{Request: Request{Prompt: "short prompt"}}

	require.NoError(t, phase.Run(context.Background(), st))
	require.Equal(t, refined, st.RefinedPrompt)
	require.Equal(t, []string{"must use go 1.22"}, st.TechnicalConstraints)
}
