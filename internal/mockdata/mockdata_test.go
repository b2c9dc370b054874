package mockdata

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Anurag9000/Gram-Connect/internal/adapters/featurestore"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := DefaultConfig()

		Convey("generation is deterministic per seed", func() {
			So(Generate(cfg), ShouldResemble, Generate(cfg))

			other := cfg
			other.Seed = 7
			So(Generate(other).Pairs, ShouldNotResemble, Generate(cfg).Pairs)
		})

		Convey("the dataset has the requested shape", func() {
			d := Generate(cfg)
			So(d.People, ShouldHaveLength, cfg.People)
			So(d.Proposals, ShouldHaveLength, cfg.Proposals)
			So(d.Pairs, ShouldHaveLength, cfg.Proposals*cfg.PairsPerProposal)
			So(d.Villages, ShouldHaveLength, len(villages))

			positives := 0
			for _, p := range d.Pairs {
				if p.Label {
					positives++
				}
			}
			So(positives, ShouldBeGreaterThan, 0)
			So(positives, ShouldBeLessThan, len(d.Pairs))

			for _, p := range d.People {
				So(p.Validate(), ShouldBeNil)
			}
		})

		Convey("written files load back through the feature store", func() {
			d := Generate(cfg)
			dir := filepath.Join(t.TempDir(), "data")
			So(Write(context.Background(), dir, d), ShouldBeNil)

			st, err := featurestore.Load(context.Background(), featurestore.Paths{
				People:       filepath.Join(dir, PeopleFile),
				Proposals:    filepath.Join(dir, ProposalsFile),
				Pairs:        filepath.Join(dir, PairsFile),
				Villages:     filepath.Join(dir, VillagesFile),
				Distances:    filepath.Join(dir, DistancesFile),
				Availability: filepath.Join(dir, AvailabilityFile),
				Schedule:     filepath.Join(dir, ScheduleFile),
			})
			So(err, ShouldBeNil)
			So(st.People(), ShouldResemble, d.People)
			So(st.Proposals(), ShouldHaveLength, len(d.Proposals))
			So(st.Proposals()[0].RequiredSkills, ShouldResemble, d.Proposals[0].RequiredSkills)
			So(st.Pairs(), ShouldResemble, d.Pairs)
			So(st.Schedule(), ShouldHaveLength, len(d.Schedule))
			So(st.AvailabilityLegend(), ShouldResemble, d.Legend)
			So(len(st.VillageNames()), ShouldEqual, len(villages))
		})
	})
}
