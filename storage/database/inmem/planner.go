package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core/planner"
)

type plannerRepository struct {
	plans *table[planner.WeeklyPlan]
}

var _ planner.Repository = (*plannerRepository)(nil)

func NewPlannerRepository(db *DB) planner.Repository {
	return &plannerRepository{plans: db.plans}
}

func (repo *plannerRepository) CreatePlan(p planner.WeeklyPlan) (planner.WeeklyPlan, error) {
	repo.plans.mutex.Lock()
	defer repo.plans.mutex.Unlock()

	repo.plans.seq++
	p.ID = repo.plans.seq
	repo.plans.rows[p.ID] = &p
	return p, nil
}

func (repo *plannerRepository) GetPlanByID(id int) (planner.WeeklyPlan, error) {
	repo.plans.mutex.RLock()
	defer repo.plans.mutex.RUnlock()

	if p, ok := repo.plans.rows[id]; ok {
		return *p, nil
	}
	return planner.WeeklyPlan{}, planner.ErrPlanNotFound
}

func (repo *plannerRepository) FilterPlans(filter planner.QueryFilter) ([]planner.WeeklyPlan, error) {
	repo.plans.mutex.RLock()
	defer repo.plans.mutex.RUnlock()

	plans := make([]planner.WeeklyPlan, 0)
	for _, p := range repo.plans.all() {
		if filter.TeacherID != 0 && p.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ClassCode != "" && p.ClassCode != filter.ClassCode {
			continue
		}
		if filter.Discipline != "" && p.Discipline != filter.Discipline {
			continue
		}
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

func (repo *plannerRepository) UpdatePlan(p planner.WeeklyPlan) (planner.WeeklyPlan, error) {
	repo.plans.mutex.Lock()
	defer repo.plans.mutex.Unlock()

	if _, ok := repo.plans.rows[p.ID]; !ok {
		return planner.WeeklyPlan{}, planner.ErrPlanNotFound
	}
	repo.plans.rows[p.ID] = &p
	return p, nil
}

func (repo *plannerRepository) DeletePlansByID(ids ...int) error {
	repo.plans.mutex.Lock()
	defer repo.plans.mutex.Unlock()
	for _, id := range ids {
		delete(repo.plans.rows, id)
	}
	return nil
}
