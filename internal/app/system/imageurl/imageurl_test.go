package imageurl

import "testing"

func TestRewrite(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		variant Variant
		want    string
	}{
		{
			"cloudinary card",
			"https://res.cloudinary.com/demo/image/upload/v1/autoelite/car.jpg",
			Card,
			"https://res.cloudinary.com/demo/image/upload/w_300,h_300,c_fill,f_auto,q_auto/v1/autoelite/car.jpg",
		},
		{
			"cloudinary hero",
			"https://res.cloudinary.com/demo/image/upload/v1/bg.jpg",
			Hero,
			"https://res.cloudinary.com/demo/image/upload/w_800,f_auto,q_auto,c_fill,g_auto/v1/bg.jpg",
		},
		{
			"unknown host unchanged",
			"https://example.com/upload/photo.jpg",
			Card,
			"https://example.com/upload/photo.jpg",
		},
		{
			"cloudinary without upload segment unchanged",
			"https://res.cloudinary.com/demo/raw/fetch/photo.jpg",
			Card,
			"https://res.cloudinary.com/demo/raw/fetch/photo.jpg",
		},
		{"empty", "", Card, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rewrite(tt.url, tt.variant); got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}
