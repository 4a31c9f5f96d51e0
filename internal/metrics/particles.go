package metrics

import "github.com/san-kum/backdrop/internal/world"

type PeakParticles struct {
	name string
	peak int
}

func NewPeakParticles() *PeakParticles {
	return &PeakParticles{name: "peak_particles"}
}

func (p *PeakParticles) Name() string { return p.name }

func (p *PeakParticles) Observe(st world.Stats) {
	p.peak = max(p.peak, st.Particles)
}

func (p *PeakParticles) Value() float64 { return float64(p.peak) }

func (p *PeakParticles) Reset() { p.peak = 0 }

type MeanParticles struct {
	name    string
	sum     int
	samples int
}

func NewMeanParticles() *MeanParticles {
	return &MeanParticles{name: "mean_particles"}
}

func (m *MeanParticles) Name() string { return m.name }

func (m *MeanParticles) Observe(st world.Stats) {
	m.sum += st.Particles
	m.samples++
}

func (m *MeanParticles) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanParticles) Reset() {
	m.sum = 0
	m.samples = 0
}
