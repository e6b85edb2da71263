package neural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Network is a fixed-shape feed-forward net with tanh units. With no hidden
// layer the inputs connect straight to the outputs.
//
// Weights are laid out layer by layer, each layer row-major with the bias
// last in every row.
type Network struct {
	Key    int // genome key, for error messages
	in     int
	layers []layer
}

type layer struct {
	w *mat.Dense    // out x in
	b *mat.VecDense // out
}

// NetworkSize is the number of parameters of an in -> hidden -> out network.
func NetworkSize(in, hidden, out int) int {
	if hidden == 0 {
		return out * (in + 1)
	}
	return hidden*(in+1) + out*(hidden+1)
}

// NewNetwork builds a network over weights. The slice is copied.
func NewNetwork(key, in, hidden, out int, weights []float64) (*Network, error) {
	if in < 1 || out < 1 || hidden < 0 {
		return nil, fmt.Errorf("%w: genome %d has shape %d/%d/%d", ErrShape, key, in, hidden, out)
	}
	if len(weights) != NetworkSize(in, hidden, out) {
		return nil, fmt.Errorf("%w: genome %d has %d weights, shape %d/%d/%d needs %d",
			ErrShape, key, len(weights), in, hidden, out, NetworkSize(in, hidden, out))
	}
	widths := []int{in, out}
	if hidden > 0 {
		widths = []int{in, hidden, out}
	}

	n := &Network{Key: key, in: in}
	rest := weights
	for i := 1; i < len(widths); i++ {
		rows, cols := widths[i], widths[i-1]
		l := layer{w: mat.NewDense(rows, cols, nil), b: mat.NewVecDense(rows, nil)}
		for r := 0; r < rows; r++ {
			row := rest[r*(cols+1) : (r+1)*(cols+1)]
			l.w.SetRow(r, row[:cols])
			l.b.SetVec(r, row[cols])
		}
		rest = rest[rows*(cols+1):]
		n.layers = append(n.layers, l)
	}
	return n, nil
}

// Decide activates the network once.
func (n *Network) Decide(obs []float64) ([]float64, error) {
	if len(obs) != n.in {
		return nil, fmt.Errorf("%w: genome %d takes %d inputs, got %d", ErrShape, n.Key, n.in, len(obs))
	}
	var x mat.Vector = mat.NewVecDense(n.in, obs)
	for _, l := range n.layers {
		rows, _ := l.w.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(l.w, x)
		y.AddVec(y, l.b)
		for i := 0; i < rows; i++ {
			y.SetVec(i, math.Tanh(y.AtVec(i)))
		}
		x = y
	}
	out := make([]float64, x.Len())
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

// Inputs returns the number of input nodes.
func (n *Network) Inputs() int { return n.in }

// Outputs returns the number of output nodes.
func (n *Network) Outputs() int {
	rows, _ := n.layers[len(n.layers)-1].w.Dims()
	return rows
}

// NodeCount returns the number of evaluated (non-input) nodes.
func (n *Network) NodeCount() int {
	total := 0
	for _, l := range n.layers {
		rows, _ := l.w.Dims()
		total += rows
	}
	return total
}

// ConnectionCount returns the number of non-zero connection weights.
func (n *Network) ConnectionCount() int {
	total := 0
	for _, l := range n.layers {
		rows, cols := l.w.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if l.w.At(r, c) != 0 {
					total++
				}
			}
		}
	}
	return total
}
