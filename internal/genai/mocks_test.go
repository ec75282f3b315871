package genai_test

import "context"

// fakeGenerator is a scriptable Generator double. Replies are consumed in
// order; the final entry repeats once the queue is drained.
type fakeGenerator struct {
	replies       []string
	err           error
	illustrateB64 string
	illustrateErr error

	completeCalls   int
	illustrateCalls int
	systemPrompts   []string
	userPrompts     []string
}

func (f *fakeGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	f.completeCalls++
	f.systemPrompts = append(f.systemPrompts, system)
	f.userPrompts = append(f.userPrompts, user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeGenerator) Illustrate(ctx context.Context, prompt string) (string, error) {
	f.illustrateCalls++
	f.userPrompts = append(f.userPrompts, prompt)
	if f.illustrateErr != nil {
		return "", f.illustrateErr
	}
	return f.illustrateB64, nil
}
