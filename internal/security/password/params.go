package password

type Params struct {
	Memory      uint32 // kibibytes
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams is 64 MiB, t=3, p=1.
func DefaultParams() Params {
	return Params{
		Memory:      65536,
		Iterations:  3,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}
