package evolve

import (
	"cmp"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/pthm-cable/critters/neural"
)

// Population is one generation of genomes plus the state that carries over
// between generations.
type Population struct {
	cfg        *Config
	Genomes    []*Genome // ordered by key
	Generation int       // completed generations
	Best       *Genome   // best genome seen so far, nil before the first generation

	species     map[int]*Genome // representative per species id
	nextKey     int
	nextSpecies int
	pcg         *rand.PCG
	rng         *rand.Rand
}

// FitnessFunc scores genomes in place through Genome.Fitness.
type FitnessFunc func(genomes []*Genome) error

// NewPopulation creates pop_size random genomes and groups them into species.
func NewPopulation(cfg *Config, seed uint64) *Population {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	p := &Population{
		cfg:     cfg,
		species: map[int]*Genome{},
		pcg:     pcg,
		rng:     rand.New(pcg),
	}
	for range cfg.Population.PopSize {
		p.Genomes = append(p.Genomes, newGenome(p.newKey(), &cfg.Genome, p.pcg))
	}
	p.speciate()
	return p
}

func (p *Population) newKey() int {
	p.nextKey++
	return p.nextKey
}

// SpeciesCount returns the number of live species.
func (p *Population) SpeciesCount() int { return len(p.species) }

// RunGeneration evaluates the current genomes and breeds the next
// generation. It returns the best genome when it meets fitness_threshold
// (unless no_fitness_termination is set); the population is then left
// unchanged. A failed eval leaves the generation count where it was.
func (p *Population) RunGeneration(eval FitnessFunc) (*Genome, error) {
	p.Generation++
	for _, g := range p.Genomes {
		g.Fitness = 0
	}
	if err := eval(p.Genomes); err != nil {
		p.Generation--
		return nil, err
	}

	best := slices.MaxFunc(p.Genomes, func(a, b *Genome) int { return cmp.Compare(a.Fitness, b.Fitness) })
	if p.Best == nil || best.Fitness > p.Best.Fitness {
		p.Best = best.clone(best.Key)
		p.Best.Fitness = best.Fitness
	}
	if !p.cfg.Population.NoFitnessTermination && best.Fitness >= p.cfg.Population.FitnessThreshold {
		return best, nil
	}

	p.reproduce()
	p.speciate()
	return nil, nil
}

// reproduce keeps the elites and fills the rest of the generation with
// mutated children of the top survival_threshold fraction. Crossover
// partners come from the same species when one is available.
func (p *Population) reproduce() {
	pc, gc := p.cfg.Population, &p.cfg.Genome

	ranked := slices.Clone(p.Genomes)
	slices.SortStableFunc(ranked, func(a, b *Genome) int { return cmp.Compare(b.Fitness, a.Fitness) })

	next := make([]*Genome, 0, pc.PopSize)
	for _, g := range ranked[:min(pc.Elitism, len(ranked))] {
		next = append(next, g.clone(g.Key))
	}

	parents := ranked[:max(1, int(math.Ceil(pc.SurvivalThreshold*float64(len(ranked)))))]
	for len(next) < pc.PopSize {
		a := parents[p.rng.IntN(len(parents))]
		var child *Genome
		if p.rng.Float64() < gc.CrossoverRate {
			child = crossover(p.newKey(), a, p.mate(a, parents), p.rng)
		} else {
			child = a.clone(p.newKey())
		}
		child.mutate(gc, p.rng, p.pcg)
		next = append(next, child)
	}

	slices.SortFunc(next, func(a, b *Genome) int { return cmp.Compare(a.Key, b.Key) })
	p.Genomes = next
}

// mate picks a random parent from a's species, or a itself.
func (p *Population) mate(a *Genome, parents []*Genome) *Genome {
	var kin []*Genome
	for _, g := range parents {
		if g != a && g.Species == a.Species {
			kin = append(kin, g)
		}
	}
	if len(kin) == 0 {
		return a
	}
	return kin[p.rng.IntN(len(kin))]
}

// speciate assigns each genome to the first species whose representative is
// within compatibility_threshold, founding a new species otherwise. The first
// member of each species becomes its next representative; species left
// without members disappear.
func (p *Population) speciate() {
	threshold := p.cfg.Species.CompatibilityThreshold
	ids := make([]int, 0, len(p.species))
	for id := range p.species {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	reps := make(map[int]*Genome, len(p.species))
	next := make(map[int]*Genome, len(p.species))
	for _, id := range ids {
		reps[id] = p.species[id]
	}
	for _, g := range p.Genomes {
		g.Species = 0
		for _, id := range ids {
			if g.Distance(reps[id]) < threshold {
				g.Species = id
				break
			}
		}
		if g.Species == 0 {
			p.nextSpecies++
			g.Species = p.nextSpecies
			reps[g.Species] = g
			ids = append(ids, g.Species)
		}
		if _, ok := next[g.Species]; !ok {
			next[g.Species] = g.clone(g.Key)
		}
	}
	p.species = next
}

// checkpoint is the gob form of a Population.
type checkpoint struct {
	Generation  int
	Genomes     []*Genome
	Best        *Genome
	Species     map[int]*Genome
	NextKey     int
	NextSpecies int
	RNG         []byte
}

// SaveCheckpoint writes the population as gzip-compressed gob.
func (p *Population) SaveCheckpoint(path string) error {
	state, err := p.pcg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding rng state: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating checkpoint %s: %w", path, err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	err = gob.NewEncoder(zw).Encode(checkpoint{
		Generation:  p.Generation,
		Genomes:     p.Genomes,
		Best:        p.Best,
		Species:     p.species,
		NextKey:     p.nextKey,
		NextSpecies: p.nextSpecies,
		RNG:         state,
	})
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing checkpoint: %w", err)
	}
	return f.Close()
}

// LoadCheckpoint restores a population saved by SaveCheckpoint. cfg must
// describe the same network shape.
func LoadCheckpoint(path string, cfg *Config) (*Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %s: %w", path, err)
	}
	defer zr.Close()

	var c checkpoint
	if err := gob.NewDecoder(zr).Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding checkpoint %s: %w", path, err)
	}
	if len(c.Genomes) == 0 {
		return nil, fmt.Errorf("checkpoint %s holds no genomes", path)
	}
	size := neural.NetworkSize(cfg.Genome.NumInputs, cfg.Genome.NumHidden, cfg.Genome.NumOutputs)
	for _, g := range c.Genomes {
		if len(g.Weights) != size {
			return nil, fmt.Errorf("%w: checkpoint genome %d has %d weights, config needs %d",
				ErrTopology, g.Key, len(g.Weights), size)
		}
	}

	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(c.RNG); err != nil {
		return nil, fmt.Errorf("decoding rng state: %w", err)
	}
	if c.Species == nil {
		c.Species = map[int]*Genome{}
	}
	return &Population{
		cfg:         cfg,
		Genomes:     c.Genomes,
		Generation:  c.Generation,
		Best:        c.Best,
		species:     c.Species,
		nextKey:     c.NextKey,
		nextSpecies: c.NextSpecies,
		pcg:         pcg,
		rng:         rand.New(pcg),
	}, nil
}
