package review

import "testing"

func TestMeanRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    float64
		wantOK  bool
	}{
		{"no reviews", nil, 0, false},
		{"single review", []int{4}, 4.0, true},
		{"rounds to one decimal", []int{5, 4, 4}, 4.3, true},
		{"rounds half up", []int{4, 5}, 4.5, true},
		{"repeating third", []int{1, 2, 2}, 1.7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviews := make([]*Review, 0, len(tc.ratings))
			for _, r := range tc.ratings {
				reviews = append(reviews, &Review{Rating: r})
			}
			got, ok := MeanRating(reviews)
			if ok != tc.wantOK {
				t.Fatalf("MeanRating ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("MeanRating = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		if !ValidRating(r) {
			t.Fatalf("rating %d should be valid", r)
		}
	}
	for _, r := range []int{0, 6, -1} {
		if ValidRating(r) {
			t.Fatalf("rating %d should be invalid", r)
		}
	}
}
