// Package analyzers contém os detectores de padrões. Cada analisador é uma função pura do cubo
// e pode rodar em qualquer ordem ou em paralelo com os demais.
package analyzers

import (
	"fmt"
	"strings"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

type Analyzer interface {
	Name() string
	// Analyze só devolve erro quando um achado viola o próprio esquema
	Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error)
}

// All devolve os analisadores na ordem fixa usada para montar a lista de achados
func All() []Analyzer {
	return []Analyzer{
		Planning{},
		Efficiency{},
		Opportunity{},
		Risk{},
		Composition{},
		Device{},
		Demographic{},
		Geographic{},
	}
}

type collector struct {
	findings []domain.CognitiveFinding
	err      error
}

func (c *collector) add(f domain.CognitiveFinding) {
	if c.err != nil {
		return
	}

	finding, err := domain.NewFinding(f)
	if err != nil {
		c.err = err
		return
	}

	c.findings = append(c.findings, finding)
}

func (c *collector) result() ([]domain.CognitiveFinding, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.findings, nil
}

// slug troca espaços por hífen e preserva a caixa para ids estáveis
func slug(s string) string {
	return strings.Join(strings.Fields(s), "-")
}

func money(v float64) string {
	return fmt.Sprintf("R$ %.2f", utils.RoundWithTwoDecimalPlace(v))
}

func rec(action string, impact, effort domain.Level, steps ...string) domain.Recommendation {
	return domain.Recommendation{Action: action, Impact: impact, Effort: effort, Steps: steps}
}
