package ensemble

import "math/rand/v2"

func randSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}
