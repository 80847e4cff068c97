package output

import (
	"encoding/binary"
	"errors"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"golang.org/x/image/bmp"
)

func testPixels(w, h int) []color.RGBA {
	px := make([]color.RGBA, w*h)
	for i := range px {
		px[i] = color.RGBA{uint8(i * 10), uint8(255 - i*10), uint8(i), 255}
	}
	return px
}

func TestToImageSizeMismatch(t *testing.T) {
	if _, err := ToImage(2, 2, make([]color.RGBA, 3)); !errors.Is(err, ErrPixelCount) {
		t.Errorf("err = %v, want ErrPixelCount", err)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want Writer
	}{
		{"out.png", PNGFile{Path: "out.png"}},
		{"OUT.BMP", BMPFile{Path: "OUT.BMP"}},
		{"render", PNGFile{Path: "render"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ForPath(tt.path); got != tt.want {
				t.Errorf("ForPath(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPNGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	pixels := testPixels(4, 3)
	if err := (PNGFile{Path: path}).Write(4, 3, pixels); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, want := range pixels {
		got := color.RGBAModel.Convert(img.At(i%4, i/4)).(color.RGBA)
		if got != want {
			t.Errorf("pixel %d = %v, want %v", i, got, want)
		}
	}
}

func TestBMPFile(t *testing.T) {
	const w, h = 3, 2
	path := filepath.Join(t.TempDir(), "out.bmp")
	pixels := testPixels(w, h)
	pixels[0].A = 0 // alpha is dropped, not written
	if err := (BMPFile{Path: path}).Write(w, h, pixels); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:2]) != "BM" {
		t.Fatalf("magic = %q", data[:2])
	}
	if bpp := binary.LittleEndian.Uint16(data[28:30]); bpp != 24 {
		t.Errorf("bits per pixel = %d, want 24", bpp)
	}
	offset := binary.LittleEndian.Uint32(data[10:14])
	// Each 9-byte row is padded to 12 bytes.
	if got, want := len(data), int(offset)+12*h; got != want {
		t.Errorf("file size = %d, want %d", got, want)
	}
	// Rows are stored bottom-up in BGR order.
	first := data[offset : offset+3]
	bottomLeft := pixels[(h-1)*w]
	if first[0] != bottomLeft.B || first[1] != bottomLeft.G || first[2] != bottomLeft.R {
		t.Errorf("first stored pixel = %v, want BGR of %v", first, bottomLeft)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Errorf("decoded size = %v", b)
	}
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("upload without deadline")
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Writer(t *testing.T) {
	fake := &fakeS3{}
	cfg := S3Config{Bucket: "renders", ACL: "public-read"}
	w := NewS3Writer(fake, cfg, "scenes/demo.png")

	if err := w.Write(2, 2, testPixels(2, 2)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	in := fake.input
	if aws.StringValue(in.Bucket) != "renders" || aws.StringValue(in.Key) != "scenes/demo.png" {
		t.Errorf("bucket/key = %s/%s", aws.StringValue(in.Bucket), aws.StringValue(in.Key))
	}
	if aws.StringValue(in.ContentType) != "image/png" || aws.StringValue(in.ACL) != "public-read" {
		t.Errorf("content type %s, acl %s", aws.StringValue(in.ContentType), aws.StringValue(in.ACL))
	}
	if aws.Int64Value(in.ContentLength) != int64(len(fake.body)) {
		t.Errorf("content length %d, body %d", aws.Int64Value(in.ContentLength), len(fake.body))
	}
	if string(fake.body[1:4]) != "PNG" {
		t.Error("body is not a PNG")
	}
}

func TestS3WriterErrors(t *testing.T) {
	noBucket := NewS3Writer(&fakeS3{}, S3Config{}, "k")
	if err := noBucket.Write(1, 1, testPixels(1, 1)); !errors.Is(err, ErrNoBucket) {
		t.Errorf("err = %v, want ErrNoBucket", err)
	}

	boom := errors.New("boom")
	failing := NewS3Writer(&fakeS3{err: boom}, S3Config{Bucket: "b"}, "k")
	if err := failing.Write(1, 1, testPixels(1, 1)); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}

	if _, err := NewS3Client(S3Config{}); !errors.Is(err, ErrNoBucket) {
		t.Errorf("NewS3Client err = %v, want ErrNoBucket", err)
	}
}

func TestS3ConfigFromEnv(t *testing.T) {
	t.Setenv("PHOTON_S3_BUCKET", "bucket")
	t.Setenv("PHOTON_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("PHOTON_S3_ACCESS_KEY", "key")

	cfg := S3ConfigFromEnv()
	if cfg.Bucket != "bucket" || cfg.Endpoint != "http://localhost:9000" || cfg.AccessKey != "key" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Region != "us-east-1" {
		t.Errorf("Region = %q, want default", cfg.Region)
	}

	client, err := NewS3Client(cfg)
	if err != nil || client == nil {
		t.Fatalf("NewS3Client: %v", err)
	}
}
