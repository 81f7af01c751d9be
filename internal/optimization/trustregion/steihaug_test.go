package trustregion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSteihaugExits(t *testing.T) {
	tests := []struct {
		name  string
		g     []float64
		b     mat.Symmetric
		delta float64
		jMax  int
		want  []float64
		exit  Exit
	}{
		{
			name:  "interior newton step",
			g:     []float64{2, 4},
			b:     diag(2, 2),
			delta: 10,
			want:  []float64{-1, -2},
			exit:  ExitConverged,
		},
		{
			name:  "two cg steps",
			g:     []float64{1, 1},
			b:     diag(1, 10),
			delta: 10,
			want:  []float64{-1, -0.1},
			exit:  ExitConverged,
		},
		{
			name:  "first step leaves region",
			g:     []float64{2, 4},
			b:     diag(2, 2),
			delta: 1,
			want:  []float64{-1 / math.Sqrt(5), -2 / math.Sqrt(5)},
			exit:  ExitBoundary,
		},
		{
			name:  "second step leaves region",
			g:     []float64{1, 1},
			b:     diag(1, 10),
			delta: 0.5,
			want:  []float64{-0.4762150721432122, -0.15237849278567875},
			exit:  ExitBoundary,
		},
		{
			name:  "negative definite",
			g:     []float64{3, 4},
			b:     diag(-1, -1),
			delta: 2,
			want:  []float64{-1.2, -1.6},
			exit:  ExitNegativeCurvature,
		},
		{
			name:  "indefinite",
			g:     []float64{1, 1},
			b:     diag(1, -10),
			delta: 10,
			want:  []float64{-10 / math.Sqrt2, -10 / math.Sqrt2},
			exit:  ExitNegativeCurvature,
		},
		{
			name:  "iteration cap",
			g:     []float64{1, 1},
			b:     diag(1, 10),
			delta: 10,
			jMax:  1,
			want:  []float64{-2.0 / 11, -2.0 / 11},
			exit:  ExitMaxIter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSteihaug()
			if tt.jMax > 0 {
				s.JMax = tt.jMax
			}
			out := make([]float64, len(tt.g))
			exit := s.Solve(tt.g, tt.b, tt.delta, out)
			assert.Equal(t, tt.exit, exit, exit.String())
			assertSlicesClose(t, out, tt.want, 1e-12)

			switch exit {
			case ExitBoundary, ExitNegativeCurvature:
				assert.InDelta(t, tt.delta, floats.Norm(out, 2), 1e-12)
			default:
				assert.Less(t, floats.Norm(out, 2), tt.delta)
			}
		})
	}
}

func TestSteihaugZeroGradient(t *testing.T) {
	s := NewSteihaug()
	out := []float64{7, 7}
	exit := s.Solve([]float64{0, 0}, diag(0, 0), 1, out)
	assert.Equal(t, ExitConverged, exit)
	assert.Equal(t, []float64{0, 0}, out)
}

func TestSteihaugResizes(t *testing.T) {
	s := NewSteihaug()
	out2 := make([]float64, 2)
	s.Solve([]float64{2, 4}, diag(2, 2), 10, out2)

	out3 := make([]float64, 3)
	exit := s.Solve([]float64{2, 4, 6}, diag(2, 2, 2), 10, out3)
	assert.Equal(t, ExitConverged, exit)
	assertSlicesClose(t, out3, []float64{-1, -2, -3}, 1e-12)
}

func TestSteihaugDecreasesModel(t *testing.T) {
	b := mat.NewSymDense(3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	g := []float64{1, -2, 0.5}
	model := func(p []float64) float64 {
		bp := mat.NewVecDense(3, nil)
		bp.MulVec(b, mat.NewVecDense(3, p))
		return floats.Dot(g, p) + 0.5*mat.Dot(mat.NewVecDense(3, p), bp)
	}

	for _, delta := range []float64{0.01, 0.1, 0.5, 1, 10} {
		out := make([]float64, 3)
		NewSteihaug().Solve(g, b, delta, out)
		assert.Less(t, model(out), 0.0)
		assert.LessOrEqual(t, floats.Norm(out, 2), delta*(1+1e-12))
	}
}

func TestExitString(t *testing.T) {
	assert.Equal(t, "converged", ExitConverged.String())
	assert.Equal(t, "negative-curvature", ExitNegativeCurvature.String())
	assert.Equal(t, "boundary", ExitBoundary.String())
	assert.Equal(t, "max-iterations", ExitMaxIter.String())
	assert.Equal(t, "unknown", Exit(42).String())
}
