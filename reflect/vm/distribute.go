package vm

import (
	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/types"
)

// execDistribute drives the distributive-conditional loop: on first
// dispatch it pops the distributed-over type and installs an iterator on
// the enclosing frame; every subsequent re-dispatch (reached via the
// call(target, -1) replay) collects the previous iteration's result and
// either starts the next member or finishes with the normalized union of
// non-never results.
func (s *session) execDistribute(cur *program, target int) error {
	fr := cur.frame
	loop := fr.distribLoop
	if loop == nil {
		subject, err := cur.popType()
		if err != nil {
			return err
		}
		var members []*types.Type
		if subject != nil && subject.Kind == types.KindUnion {
			members = subject.Members
		} else {
			members = []*types.Type{subject}
		}
		loop = &distributeLoop{members: members}
		fr.distribLoop = loop
	} else if loop.i > 0 {
		res, err := cur.popType()
		if err != nil {
			return err
		}
		if res == nil || res.Kind != types.KindNever {
			loop.results = append(loop.results, res)
		}
	}

	if loop.i < len(loop.members) {
		cur.writeLoopVar(loop.members[loop.i])
		loop.i++
		cur.call(target, -1)
		return nil
	}

	fr.distribLoop = nil
	cur.pushType(helpers.NormalizeUnion(loop.results))
	return nil
}
