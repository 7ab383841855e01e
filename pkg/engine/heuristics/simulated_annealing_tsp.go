package heuristics

import (
	"errors"
	"math"
	"math/rand/v2"

	"lintang/blocknav/pkg/util"
)

var (
	ErrEmptyMatrix    = errors.New("heuristics: empty distance matrix")
	ErrNonSquare      = errors.New("heuristics: distance matrix is not square")
	ErrUnreachableLeg = errors.New("heuristics: some stops are unreachable from each other")
)

// Unreachable marks a missing entry of the distance matrix.
const Unreachable = -1

type SimulatedAnnealing struct {
	distanceMatrix [][]float64
	temperature    float64
	coolingRate    float64
	rng            *rand.Rand
}

type Option func(*SimulatedAnnealing)

// WithSeed makes the annealing schedule reproducible.
func WithSeed(seed uint64) Option {
	return func(sa *SimulatedAnnealing) {
		sa.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithCooling sets the start temperature and the geometric cooling rate.
func WithCooling(temperature, coolingRate float64) Option {
	return func(sa *SimulatedAnnealing) {
		if temperature > 1 && coolingRate > 0 && coolingRate < 1 {
			sa.temperature = temperature
			sa.coolingRate = coolingRate
		}
	}
}

// NewSimulatedAnnealing takes path lengths between stops, Unreachable where
// there is no path. every pair of stops must be connected.
func NewSimulatedAnnealing(distanceMatrix [][]int, opts ...Option) (*SimulatedAnnealing, error) {
	n := len(distanceMatrix)
	if n == 0 {
		return nil, ErrEmptyMatrix
	}
	mat := make([][]float64, n)
	for i, row := range distanceMatrix {
		if len(row) != n {
			return nil, ErrNonSquare
		}
		mat[i] = make([]float64, n)
		for j, d := range row {
			if i == j {
				continue
			}
			if d == Unreachable {
				return nil, ErrUnreachableLeg
			}
			mat[i][j] = float64(d)
		}
	}

	sa := &SimulatedAnnealing{
		distanceMatrix: mat,
		temperature:    100000.0,
		coolingRate:    0.00003,
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(sa)
	}
	return sa, nil
}

func acceptanceProbability(energy float64, newEnergy float64, temperature float64) float64 {
	if newEnergy < energy {
		return 1.0
	}

	return math.Exp((energy - newEnergy) / temperature)
}

// SimpleNNHeuristics builds a tour greedily from stop 0, always moving to the
// closest unvisited stop.
func SimpleNNHeuristics(distanceMatrix [][]float64) []int {
	numStops := len(distanceMatrix)
	visited := make([]bool, numStops)
	tour := make([]int, numStops)
	tour[0] = 0
	visited[0] = true
	for i := 1; i < numStops; i++ {
		minDist := math.MaxFloat64
		minIdx := -1
		for j := 0; j < numStops; j++ {
			if !visited[j] && distanceMatrix[tour[i-1]][j] < minDist {
				minDist = distanceMatrix[tour[i-1]][j]
				minIdx = j
			}
		}
		tour[i] = minIdx
		visited[minIdx] = true
	}
	return tour
}

// Solve returns a closed tour over all stops starting at stop 0 and its length.
func (sa *SimulatedAnnealing) Solve() ([]int, float64) {
	currentSolTour := SimpleNNHeuristics(sa.distanceMatrix)
	numStops := len(sa.distanceMatrix)
	if numStops <= 3 {
		// every cyclic order of 3 stops has the same length.
		return currentSolTour, calculateDistanceSA(sa.distanceMatrix, currentSolTour)
	}

	best := make([]int, numStops)
	copy(best, currentSolTour)
	currentEnergy := calculateDistanceSA(sa.distanceMatrix, currentSolTour)
	bestDistance := currentEnergy

	for temp := sa.temperature; temp > 1; temp *= 1 - sa.coolingRate {
		newSolution := make([]int, numStops)
		copy(newSolution, currentSolTour)

		// reverse a segment of length [2, numStops-1] that fits in the tour.
		segmentLen := sa.rng.IntN(numStops-2) + 2
		segmentStart := sa.rng.IntN(numStops + 1 - segmentLen)
		swapReverseSA(newSolution, segmentStart, segmentLen)

		neighbourEnergy := calculateDistanceSA(sa.distanceMatrix, newSolution)
		if acceptanceProbability(currentEnergy, neighbourEnergy, temp) > sa.rng.Float64() {
			currentSolTour = newSolution
			currentEnergy = neighbourEnergy
		}

		if currentEnergy < bestDistance {
			copy(best, currentSolTour)
			bestDistance = currentEnergy
		}
	}

	return rotateToFirst(best), bestDistance
}

func calculateDistanceSA(distanceMat [][]float64, route []int) float64 {
	distance := 0.0
	for i := 0; i < len(route); i++ {
		distance += distanceMat[route[i]][route[(i+1)%len(route)]]
	}
	return distance
}

// swapReverseSA reverses route[start:start+length] in place.
func swapReverseSA(route []int, start int, length int) {
	util.ReverseG(route[start : start+length])
}

// rotateToFirst shifts a cyclic tour so that it starts at stop 0.
func rotateToFirst(tour []int) []int {
	rotated := make([]int, 0, len(tour))
	for i, stop := range tour {
		if stop == 0 {
			rotated = append(rotated, tour[i:]...)
			rotated = append(rotated, tour[:i]...)
			break
		}
	}
	return rotated
}
