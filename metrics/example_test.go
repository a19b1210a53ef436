// SPDX-License-Identifier: MIT

package metrics_test

import (
	"fmt"

	"github.com/katalvlaran/polartomo/basis"
	"github.com/katalvlaran/polartomo/metrics"
)

func ExampleFidelity() {
	h := basis.ProjectorOf(basis.H)
	d := basis.ProjectorOf(basis.D)
	f, err := metrics.Fidelity(h, d)
	if err != nil {
		fmt.Println(err)

		return
	}
	p, _ := metrics.Purity(h)
	fmt.Printf("F(H,D)=%.3f purity(H)=%.3f\n", f, p)
	// Output: F(H,D)=0.500 purity(H)=1.000
}
