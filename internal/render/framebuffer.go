package render

// FrameBuffer is one logical frame: a W x H grid of RGB bytes, row-major,
// row 0 at the top. Buffers are reused across ticks; Clone for a stable copy.
type FrameBuffer struct {
	W, H int
	Pix  []byte // len == W*H*3
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{W: w, H: h, Pix: make([]byte, w*h*3)}
}

func (f *FrameBuffer) Set(row, col int, r, g, b byte) {
	i := (row*f.W + col) * 3
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

func (f *FrameBuffer) At(row, col int) (r, g, b byte) {
	i := (row*f.W + col) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Fill sets every pixel to r,g,b.
func (f *FrameBuffer) Fill(r, g, b byte) {
	for i := 0; i+2 < len(f.Pix); i += 3 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
	}
}

// Clone returns a deep copy.
func (f *FrameBuffer) Clone() *FrameBuffer {
	out := &FrameBuffer{W: f.W, H: f.H, Pix: make([]byte, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}
