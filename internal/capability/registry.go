package capability

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
)

// Registry errors returned on lookup and registration.
var (
	ErrUnknownValidator = errors.New("unknown validation function")
	ErrUnknownGenerator = errors.New("unknown generate input function")
	ErrFrozen           = errors.New("capability registry is frozen")
)

// Validator decides whether a submitted answer matches a question's canonical
// answer.
type Validator interface {
	Validate(answer, expected string) bool
}

// Generator produces a personalized input sequence from a deterministic seed.
type Generator interface {
	Generate(seed int64) []string
}

// Registry maps capability names to validators and input generators. It is
// populated during startup, frozen, and read-only afterwards, so lookups after
// Freeze need no locking discipline from callers.
type Registry struct {
	mu         sync.RWMutex
	frozen     bool
	validators map[string]Validator
	generators map[string]Generator
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[string]Validator),
		generators: make(map[string]Generator),
	}
}

// RegisterValidator adds a named validation capability. Registration fails
// after Freeze or when the name is already taken.
func (r *Registry) RegisterValidator(name string, v Validator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if _, exists := r.validators[name]; exists {
		return fmt.Errorf("validation function %q already registered", name)
	}

	r.validators[name] = v
	return nil
}

// RegisterGenerator adds a named input-generation capability. Registration
// fails after Freeze or when the name is already taken.
func (r *Registry) RegisterGenerator(name string, g Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if _, exists := r.generators[name]; exists {
		return fmt.Errorf("generate input function %q already registered", name)
	}

	r.generators[name] = g
	return nil
}

// Freeze seals the registry against further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Validator resolves a validation capability by name.
func (r *Registry) Validator(name string) (Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.validators[name]
	if !ok {
		return nil, ErrUnknownValidator
	}
	return v, nil
}

// Generator resolves an input-generation capability by name.
func (r *Registry) Generator(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[name]
	if !ok {
		return nil, ErrUnknownGenerator
	}
	return g, nil
}

// GenerateInput invokes the named generator with a seed derived from the
// (question, user) pair, so repeated invocations for the same pair always
// yield the same sequence.
func (r *Registry) GenerateInput(questionID, userID, name string) ([]string, error) {
	g, err := r.Generator(name)
	if err != nil {
		return nil, err
	}
	return g.Generate(inputSeed(questionID, userID)), nil
}

func inputSeed(questionID, userID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(questionID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(userID))
	return int64(h.Sum64())
}
