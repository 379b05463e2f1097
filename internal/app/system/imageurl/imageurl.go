// Package imageurl rewrites media URLs to request host-side transformation
// (resize, format, quality) when the URL belongs to a known media host.
// URLs from unknown hosts pass through unchanged.
package imageurl

import "strings"

const uploadSegment = "/upload/"

// Variant names a transformation preset.
type Variant string

const (
	// Card is the thumbnail preset used by listing cards.
	Card Variant = "w_300,h_300,c_fill,f_auto,q_auto"
	// Hero is the wide preset used by hero/banner backgrounds.
	Hero Variant = "w_800,f_auto,q_auto,c_fill,g_auto"
)

// Rewrite applies the transformation variant to a Cloudinary delivery URL
// by inserting the parameter segment after /upload/. Any other URL is
// returned as-is.
func Rewrite(url string, v Variant) string {
	if url == "" {
		return ""
	}
	if !strings.Contains(url, "cloudinary.com") {
		return url
	}
	i := strings.Index(url, uploadSegment)
	if i < 0 {
		return url
	}
	return url[:i] + uploadSegment + string(v) + "/" + url[i+len(uploadSegment):]
}
