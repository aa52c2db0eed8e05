package fixmath

// Vec3 is a three-component fixed-point vector, laid out array-style so
// callers can index it (v[0], v[1], v[2]) as well as use the named
// accessors below.
type Vec3 [3]Fix64

func NewVec3(x, y, z Fix64) Vec3 { return Vec3{x, y, z} }

func Vec3FromInt(x, y, z int32) Vec3 {
	return Vec3{FromInt(int64(x)), FromInt(int64(y)), FromInt(int64(z))}
}

func (v Vec3) X() Fix64 { return v[0] }
func (v Vec3) Y() Fix64 { return v[1] }
func (v Vec3) Z() Fix64 { return v[2] }

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0].Add(o[0]), v[1].Add(o[1]), v[2].Add(o[2])}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0].Sub(o[0]), v[1].Sub(o[1]), v[2].Sub(o[2])}
}

func (v Vec3) Scale(s Fix64) Vec3 {
	return Vec3{v[0].Mul(s), v[1].Mul(s), v[2].Mul(s)}
}

// MulComponents multiplies componentwise (Hadamard product).
func (v Vec3) MulComponents(o Vec3) Vec3 {
	return Vec3{v[0].Mul(o[0]), v[1].Mul(o[1]), v[2].Mul(o[2])}
}

func (v Vec3) DivComponents(o Vec3) Vec3 {
	return Vec3{v[0].Div(o[0]), v[1].Div(o[1]), v[2].Div(o[2])}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{v[0].Neg(), v[1].Neg(), v[2].Neg()}
}

func (v Vec3) Abs() Vec3 {
	return Vec3{v[0].Abs(), v[1].Abs(), v[2].Abs()}
}

func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{Min(v[0], o[0]), Min(v[1], o[1]), Min(v[2], o[2])}
}

func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{Max(v[0], o[0]), Max(v[1], o[1]), Max(v[2], o[2])}
}

func (v Vec3) SqrMagnitude() Fix64 {
	return v[0].Mul(v[0]).Add(v[1].Mul(v[1])).Add(v[2].Mul(v[2]))
}

func (v Vec3) Eq(o Vec3) bool {
	return v[0].Eq(o[0]) && v[1].Eq(o[1]) && v[2].Eq(o[2])
}

// Hash is a componentwise FNV-ish mix used wherever a deterministic
// integer fingerprint of a position is required (e.g. config hashing).
func (v Vec3) Hash() int32 {
	return MixHash(v[0].FloorToInt(), v[1].FloorToInt(), v[2].FloorToInt())
}

// MixHash is the canonical 32-bit mixing function used across gridforge
// for spawn tokens, spatial keys and scan-cell keys. It is intentionally
// simple and wraps on overflow like the reference implementation.
func MixHash(x, y, z int32) int32 {
	h := int32(17)
	h = (h * 31) ^ x
	h = (h * 31) ^ y
	h = (h * 31) ^ z
	return h
}
