// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validatorset

import (
	"github.com/ronin-chain/dpos-contract/builtin/dpos"
	"github.com/ronin-chain/dpos-contract/builtin/reverts"
	"github.com/ronin-chain/dpos-contract/ronin"
)

// Candidate is what the validator set keeps about a candidate. Admin and
// treasury are read from the profile on every access.
type Candidate struct {
	ID                ronin.Address
	CommissionRate    uint64
	RevokingTimestamp uint64
}

func (c *Candidate) exists() bool {
	return c != nil && !c.ID.IsZero()
}

// CommissionSchedule is a pending commission rate change.
type CommissionSchedule struct {
	EffectiveTimestamp uint64
	Rate               uint64
}

// CandidateInfo is the joined view of a candidate and its profile.
type CandidateInfo struct {
	Admin             ronin.Address
	Consensus         ronin.Address
	Treasury          ronin.Address
	CommissionRate    uint64
	RevokingTimestamp uint64
}

// ExecApplyValidatorCandidate grants candidacy to id.
func (v *ValidatorSet) ExecApplyValidatorCandidate(admin, id ronin.Address, commissionRate uint64) error {
	if err := dpos.OnlyContract(v.env, v.linker, dpos.ContractStaking, sig("execApplyValidatorCandidate")); err != nil {
		return err
	}
	count, err := v.candidates.Len()
	if err != nil {
		return err
	}
	maxCandidate, err := v.MaxValidatorCandidate()
	if err != nil {
		return err
	}
	if count >= maxCandidate {
		return reverts.ErrExceedsMaxNumberOfCandidate
	}
	info, err := v.candidateInfo.Get(id)
	if err != nil {
		return err
	}
	if info.exists() {
		return reverts.ErrExistentCandidate
	}

	if err := v.candidates.Add(id); err != nil {
		return err
	}
	if err := v.candidateInfo.Set(id, &Candidate{ID: id, CommissionRate: commissionRate}); err != nil {
		return err
	}
	v.env.Log(evCandidateGranted, id, admin, commissionRate)
	return nil
}

// ExecRequestRenounceCandidate schedules the revocation of id secsLeft seconds from now.
func (v *ValidatorSet) ExecRequestRenounceCandidate(id ronin.Address, secsLeft uint64) error {
	if err := dpos.OnlyContract(v.env, v.linker, dpos.ContractStaking, sig("execRequestRenounceCandidate")); err != nil {
		return err
	}
	info, err := v.requireCandidate(id)
	if err != nil {
		return err
	}
	if info.RevokingTimestamp != 0 {
		return reverts.ErrAlreadyRequestedRenouncing
	}
	info.RevokingTimestamp = v.env.BlockContext().Time + secsLeft
	if err := v.candidateInfo.Set(id, info); err != nil {
		return err
	}
	v.env.Log(evCandidateRevokingTimestampUpdated, id, info.RevokingTimestamp)
	return nil
}

// ExecRequestUpdateCommissionRate schedules a commission rate change, applied at
// the first period end after effectiveTimestamp.
func (v *ValidatorSet) ExecRequestUpdateCommissionRate(id ronin.Address, effectiveTimestamp, rate uint64) error {
	if err := dpos.OnlyContract(v.env, v.linker, dpos.ContractStaking, sig("execRequestUpdateCommissionRate")); err != nil {
		return err
	}
	if _, err := v.requireCandidate(id); err != nil {
		return err
	}
	pending, err := v.schedules.Get(id)
	if err != nil {
		return err
	}
	if pending.EffectiveTimestamp != 0 {
		return reverts.ErrAlreadyRequestedUpdatingCommission
	}
	if err := v.schedules.Set(id, &CommissionSchedule{EffectiveTimestamp: effectiveTimestamp, Rate: rate}); err != nil {
		return err
	}
	v.env.Log(evCommissionRateUpdateScheduled, id, effectiveTimestamp, rate)
	return nil
}

func (v *ValidatorSet) requireCandidate(id ronin.Address) (*Candidate, error) {
	info, err := v.candidateInfo.Get(id)
	if err != nil {
		return nil, err
	}
	if !info.exists() {
		return nil, reverts.ErrNonExistentCandidate
	}
	return info, nil
}

// IsValidatorCandidate reports whether id is a candidate.
func (v *ValidatorSet) IsValidatorCandidate(id ronin.Address) (bool, error) {
	return v.candidates.Contains(id)
}

// GetCandidateIds returns the ids of all candidates in application order.
func (v *ValidatorSet) GetCandidateIds() ([]ronin.Address, error) {
	return v.candidates.All()
}

// GetValidatorCandidates returns the current consensus addresses of all candidates.
func (v *ValidatorSet) GetValidatorCandidates() ([]ronin.Address, error) {
	ids, err := v.GetCandidateIds()
	if err != nil {
		return nil, err
	}
	return v.consensusOf(ids)
}

// GetCandidateInfo joins the candidate record of id with its profile.
func (v *ValidatorSet) GetCandidateInfo(id ronin.Address) (*CandidateInfo, error) {
	info, err := v.requireCandidate(id)
	if err != nil {
		return nil, err
	}
	profiles, err := v.profiles()
	if err != nil {
		return nil, err
	}
	profile, err := profiles.GetId2Profile(id)
	if err != nil {
		return nil, err
	}
	return &CandidateInfo{
		Admin:             profile.Admin,
		Consensus:         profile.Consensus,
		Treasury:          profile.Treasury,
		CommissionRate:    info.CommissionRate,
		RevokingTimestamp: info.RevokingTimestamp,
	}, nil
}

// revokeCandidates drops the candidates whose revoking time has come and
// returns their ids.
func (v *ValidatorSet) revokeCandidates(now uint64) ([]ronin.Address, error) {
	ids, err := v.GetCandidateIds()
	if err != nil {
		return nil, err
	}
	var revoked []ronin.Address
	for _, id := range ids {
		info, err := v.candidateInfo.Get(id)
		if err != nil {
			return nil, err
		}
		if info.RevokingTimestamp == 0 || info.RevokingTimestamp > now {
			continue
		}
		if err := v.candidates.Remove(id); err != nil {
			return nil, err
		}
		if err := v.candidateInfo.Delete(id); err != nil {
			return nil, err
		}
		if err := v.schedules.Delete(id); err != nil {
			return nil, err
		}
		revoked = append(revoked, id)
	}
	return revoked, nil
}

// applyCommissionSchedules moves due schedules into the candidate records.
func (v *ValidatorSet) applyCommissionSchedules(now uint64) error {
	ids, err := v.GetCandidateIds()
	if err != nil {
		return err
	}
	for _, id := range ids {
		sched, err := v.schedules.Get(id)
		if err != nil {
			return err
		}
		if sched.EffectiveTimestamp == 0 || sched.EffectiveTimestamp > now {
			continue
		}
		info, err := v.candidateInfo.Get(id)
		if err != nil {
			return err
		}
		info.CommissionRate = sched.Rate
		if err := v.candidateInfo.Set(id, info); err != nil {
			return err
		}
		if err := v.schedules.Delete(id); err != nil {
			return err
		}
		v.env.Log(evCommissionRateUpdated, id, sched.Rate)
	}
	return nil
}
