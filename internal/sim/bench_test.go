package sim

import (
	"context"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
)

func BenchmarkStep(b *testing.B) {
	cfg := DefaultConfig()
	bodies := [2]body.Body{cfg.Bodies[0].Body(), cfg.Bodies[1].Body()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Step(&bodies, cfg.Dt)
	}
}

func BenchmarkRun(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Steps = 10000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New().Run(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunObserved(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Steps = 10000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := New()
		s.AddObserver(&countingObserver{})
		if _, err := s.Run(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}
