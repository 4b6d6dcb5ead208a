package quiz

import (
	"math/rand"
	"sort"
	"testing"
)

func TestGenerateProblem_OperandsInRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 5000; i++ {
		p := GenerateProblem(DefaultOperations(), r)

		if p.A < 2 || p.A > p.Operation.Range+1 {
			t.Fatalf("operand A=%d out of [2, %d]", p.A, p.Operation.Range+1)
		}
		if p.B < 2 || p.B > p.Operation.Range+1 {
			t.Fatalf("operand B=%d out of [2, %d]", p.B, p.Operation.Range+1)
		}
		if want := p.Operation.Apply(p.A, p.B); p.Answer != want {
			t.Fatalf("%s: answer %d, want %d", p.Text(), p.Answer, want)
		}
	}
}

func TestGenerateProblem_UsesWholeCatalog(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		seen[GenerateProblem(DefaultOperations(), r).Operation.Name] = true
	}

	if !seen[Addition.Name] || !seen[Multiplication.Name] {
		t.Errorf("expected both operations to be picked, got %v", seen)
	}
}

func TestProblemText(t *testing.T) {
	tests := []struct {
		problem Problem
		want    string
	}{
		{Problem{A: 5, B: 3, Operation: Addition, Answer: 8}, "5 + 3"},
		{Problem{A: 7, B: 8, Operation: Multiplication, Answer: 56}, "7 × 8"},
	}

	for _, tc := range tests {
		if got := tc.problem.Text(); got != tc.want {
			t.Errorf("Text() = %q, want %q", got, tc.want)
		}
	}
}

func TestGenerateDistractors_Invariants(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	// 4 - наименьший возможный правильный ответ (2+2 и 2*2)
	for _, correct := range []int{4, 5, 8, 11, 42, 169} {
		for i := 0; i < 500; i++ {
			values := GenerateDistractors(correct, r)

			if len(values) != ChoiceCount {
				t.Fatalf("correct=%d: got %d values, want %d", correct, len(values), ChoiceCount)
			}

			seen := map[int]bool{}
			matches := 0
			for _, v := range values {
				if v <= 0 {
					t.Fatalf("correct=%d: non-positive value %d in %v", correct, v, values)
				}
				if seen[v] {
					t.Fatalf("correct=%d: duplicate %d in %v", correct, v, values)
				}
				seen[v] = true
				if v == correct {
					matches++
				}
				if d := v - correct; d != 0 && d != 1 && d != -1 && d != 10 && d != -10 && (d < -3 || d > 3) {
					t.Fatalf("correct=%d: %d is not a plausible mistake", correct, v)
				}
			}
			if matches != 1 {
				t.Fatalf("correct=%d: %d values equal the answer in %v", correct, matches, values)
			}
		}
	}
}

func TestShuffle_KeepsElements(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	in := []int{8, 9, 18, 7}

	out := Shuffle(in, r)

	if len(out) != len(in) {
		t.Fatalf("expected %d elements, got %d", len(in), len(out))
	}
	a := append([]int(nil), in...)
	b := append([]int(nil), out...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle changed the set: %v -> %v", in, out)
		}
	}
	if in[0] != 8 || in[1] != 9 || in[2] != 18 || in[3] != 7 {
		t.Errorf("input was modified: %v", in)
	}
}

func TestShuffle_AllOrderingsReachable(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	counts := map[[4]int]int{}
	const rounds = 24000

	for i := 0; i < rounds; i++ {
		out := Shuffle([]int{1, 2, 3, 4}, r)
		counts[[4]int{out[0], out[1], out[2], out[3]}]++
	}

	if len(counts) != 24 {
		t.Fatalf("expected all 24 orderings, got %d", len(counts))
	}
	// ожидаем ~1000 на перестановку
	for perm, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("ordering %v seen %d times, expected about %d", perm, n, rounds/24)
		}
	}
}

func TestGenerateDistractors_NonPositiveAnswer(t *testing.T) {
	r := rand.New(rand.NewSource(6))

	for _, correct := range []int{1, 0, -1, -7, -19} {
		values := GenerateDistractors(correct, r)

		if len(values) != ChoiceCount {
			t.Fatalf("correct=%d: got %d values, want %d", correct, len(values), ChoiceCount)
		}
		seen := map[int]bool{}
		for _, v := range values {
			if seen[v] {
				t.Fatalf("correct=%d: duplicate %d in %v", correct, v, values)
			}
			seen[v] = true
			if v != correct && v <= 0 {
				t.Fatalf("correct=%d: non-positive distractor %d in %v", correct, v, values)
			}
		}
		if !seen[correct] {
			t.Fatalf("correct=%d: answer missing from %v", correct, values)
		}
	}
}
