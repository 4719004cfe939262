package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"slices"
	"strings"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWidths(t *testing.T) {
	tests := []struct {
		name       string
		configured []int
		w, max     int
		want       []int
	}{
		{"caps at max", []int{400, 800, 1140, 2280}, 3000, 1140, []int{400, 800, 1140}},
		{"caps at original", []int{400, 800, 1140}, 600, 1140, []int{400, 600}},
		{"small original", []int{400, 800}, 300, 1140, []int{300}},
		{"no max", []int{400}, 500, 0, []int{400, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Widths(tt.configured, tt.w, tt.max); !slices.Equal(got, tt.want) {
				t.Errorf("Widths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessHeader(t *testing.T) {
	p := New([]int{100, 200, 400})

	res, err := p.Process(bytes.NewReader(testPNG(t, 300, 150)), Use{MaxWidth: 250})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	var widths []int
	for _, v := range res.Variants {
		widths = append(widths, v.Width)
		if !strings.HasPrefix(v.Target, Dir+"/") || !strings.HasSuffix(v.Target, ".jpg") {
			t.Errorf("variant target = %q", v.Target)
		}

		img, err := jpeg.Decode(bytes.NewReader(v.Data))
		if err != nil {
			t.Fatalf("variant is not a jpeg: %v", err)
		}
		if img.Bounds().Dx() != v.Width || img.Bounds().Dy() != v.Height {
			t.Errorf("variant %d has bounds %v", v.Width, img.Bounds())
		}
	}
	if !slices.Equal(widths, []int{100, 200, 250}) {
		t.Errorf("variant widths = %v", widths)
	}

	img := res.Image
	if img.Width != 250 || img.Height != 125 || img.AspectRatio != 2 {
		t.Errorf("image = %+v", img)
	}
	if img.Sizes != "(max-width: 250px) 100vw, 250px" {
		t.Errorf("Sizes = %q", img.Sizes)
	}
	if !strings.HasPrefix(img.Src, "/"+Dir+"/") || !strings.HasSuffix(img.Src, "-250.jpg") {
		t.Errorf("Src = %q", img.Src)
	}
	if n := strings.Count(img.SrcSet, "w"); n != 3 {
		t.Errorf("SrcSet = %q", img.SrcSet)
	}
}

func TestProcessAvatarIsSquare(t *testing.T) {
	p := New([]int{50}, WithBasePath("/blog"))

	res, err := p.Process(bytes.NewReader(testPNG(t, 120, 80)), Avatar)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if res.Image.Width != 80 || res.Image.Height != 80 {
		t.Errorf("avatar = %dx%d, want 80x80", res.Image.Width, res.Image.Height)
	}
	if !strings.HasPrefix(res.Image.Src, "/blog/"+Dir+"/") {
		t.Errorf("Src = %q, want base path prefix", res.Image.Src)
	}
}

func TestProcessCaches(t *testing.T) {
	p := New([]int{100})
	data := testPNG(t, 200, 100)

	a, err := p.Process(bytes.NewReader(data), Header)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Process(bytes.NewReader(data), Header)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("identical input was processed twice")
	}

	c, err := p.Process(bytes.NewReader(data), Avatar)
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("different uses shared a cache entry")
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	if _, err := New(nil).Process(strings.NewReader("not an image"), Header); err == nil {
		t.Fatal("Process() error = nil, want decode error")
	}
}
