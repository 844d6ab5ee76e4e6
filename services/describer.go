package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"market-scout/models"
)

const (
	resaleLowMultiplier  = 1.6
	resaleHighMultiplier = 2.0
	maxNameTags          = 6

	// DefaultMaxImagePixels caps width*height of an uploaded photo (about 40 MP).
	DefaultMaxImagePixels = 40_000_000
)

// Describer drafts listing copy from a product photo and its file name.
type Describer struct {
	caser     cases.Caser
	maxPixels int
}

// NewDescriber returns a Describer that refuses photos larger than maxPixels.
// maxPixels <= 0 selects DefaultMaxImagePixels.
func NewDescriber(maxPixels int) *Describer {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}
	return &Describer{caser: cases.Title(language.Und), maxPixels: maxPixels}
}

// Describe decodes a JPEG or PNG photo and returns a ready-to-paste listing draft.
// purchasePrice drives the suggested resale range.
func (d *Describer) Describe(filename string, photo io.Reader, purchasePrice float64) (*models.ListingDraft, error) {
	img, err := d.decode(photo)
	if err != nil {
		return nil, err
	}

	name := d.ItemName(filename)
	r, g, b := AverageColor(img)
	colorName := ColorName(r, g, b)

	if purchasePrice < 0 {
		purchasePrice = 0
	}
	draft := &models.ListingDraft{
		Title: name + " - Very good condition",
		Description: fmt.Sprintf("%s in very good condition. Color: %s. No visible tears. "+
			"Size to confirm: state the exact size. Perfect for resale. Cleaning recommended.", name, colorName),
		Tags:          nameTags(name),
		Color:         colorName,
		SuggestedLow:  round2(purchasePrice * resaleLowMultiplier),
		SuggestedHigh: round2(purchasePrice * resaleHighMultiplier),
	}
	draft.Text = fmt.Sprintf("%s\n\n%s\n\nSuggested price: %.2f - %.2f €\nTags: %s\n\nPhotos: add from your phone",
		draft.Title, draft.Description, draft.SuggestedLow, draft.SuggestedHigh, draft.Tags)
	return draft, nil
}

// decode reads the image header first and only decodes pixels when the dimensions fit.
func (d *Describer) decode(photo io.Reader) (image.Image, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(photo, &head))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > d.maxPixels/cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, d.maxPixels)
	}

	img, _, err := image.Decode(io.MultiReader(&head, photo))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

// ItemName derives a display name from an upload's file name:
// "nike_air-max.jpg" → "Nike Air Max".
func (d *Describer) ItemName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	name := d.caser.String(strings.Join(strings.Fields(base), " "))
	if name == "" || name == "." {
		return "Item"
	}
	return name
}

// AverageColor returns the mean 8-bit RGB of img, truncated toward zero.
func AverageColor(img image.Image) (r, g, b int) {
	bounds := img.Bounds()
	var sumR, sumG, sumB, n uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			sumR += uint64(c.R)
			sumG += uint64(c.G)
			sumB += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return int(sumR / n), int(sumG / n), int(sumB / n)
}

// ColorName buckets an average color into a coarse name.
func ColorName(r, g, b int) string {
	switch {
	case r > 200 && g > 200 && b > 200:
		return "light / white"
	case b > 150 && r < 120:
		return "blue"
	case g > 140 && r < 120:
		return "green"
	default:
		return "mixed color"
	}
}

func nameTags(name string) string {
	tags := make([]string, 0, maxNameTags+2)
	for _, w := range strings.Fields(name) {
		if len(tags) == maxNameTags {
			break
		}
		if utf8.RuneCountInString(w) > 2 {
			tags = append(tags, w)
		}
	}
	tags = append(tags, "vinted", "resale")
	return strings.Join(tags, ", ")
}
