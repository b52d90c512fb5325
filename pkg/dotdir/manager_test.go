package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/dotdir"
)

// inDir runs the rest of the spec from dir with HOME set to home.
func inDir(dir, home string) {
	orig, err := os.Getwd()
	Expect(err).NotTo(HaveOccurred())
	Expect(os.Chdir(dir)).To(Succeed())
	DeferCleanup(os.Chdir, orig)
	GinkgoT().Setenv("HOME", home)
}

var _ = Describe("Manager", func() {
	var (
		root string
		home string
		m    *dotdir.Manager
	)

	BeforeEach(func() {
		var err error
		// EvalSymlinks keeps expectations equal to filepath.Abs results on
		// systems where the temp dir is a symlink.
		root, err = filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		home = filepath.Join(root, "home")
		Expect(os.Mkdir(home, 0o755)).To(Succeed())
		m = dotdir.NewManager()
	})

	Describe("Target", func() {
		It("creates and returns the override dir", func() {
			dir := filepath.Join(root, "override")
			got, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(dir))
			Expect(dir).To(BeADirectory())
		})

		It("prefers the override over a local .tutor dir", func() {
			Expect(os.Mkdir(filepath.Join(root, dotdir.DirName), 0o755)).To(Succeed())
			inDir(root, home)

			got, err := m.Target(filepath.Join(root, "override"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(filepath.Join(root, "override")))
		})

		It("expands ~ in the override", func() {
			GinkgoT().Setenv("HOME", home)

			got, err := m.Target("~/course-work")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(filepath.Join(home, "course-work")))
		})

		It("uses the .tutor dir in the working directory", func() {
			local := filepath.Join(root, dotdir.DirName)
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			inDir(root, home)

			Expect(m.Target("")).To(Equal(local))
		})

		It("finds a .tutor dir in a parent directory", func() {
			local := filepath.Join(root, dotdir.DirName)
			nested := filepath.Join(root, "src", "lessons")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			Expect(os.MkdirAll(nested, 0o755)).To(Succeed())
			inDir(nested, home)

			Expect(m.Target("")).To(Equal(local))
		})

		It("falls back to ~/.tutor without searching above home", func() {
			work := filepath.Join(home, "work")
			Expect(os.Mkdir(work, 0o755)).To(Succeed())
			Expect(os.Mkdir(filepath.Join(root, dotdir.DirName), 0o755)).To(Succeed())
			inDir(work, home)

			got, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(filepath.Join(home, dotdir.DirName)))
			Expect(got).To(BeADirectory())
		})
	})

	Describe("Join", func() {
		It("joins onto the resolved directory", func() {
			Expect(m.Join(root, "session", "course.json")).To(Equal(filepath.Join(root, "session", "course.json")))
		})
	})

	Describe("ExpandHome", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("HOME", home)
		})

		It("expands a leading ~/", func() {
			Expect(dotdir.ExpandHome("~/.tutor/progress.db")).To(Equal(filepath.Join(home, ".tutor", "progress.db")))
			Expect(dotdir.ExpandHome("~")).To(Equal(home))
		})

		It("leaves other paths alone", func() {
			Expect(dotdir.ExpandHome("/var/lib/tutor.db")).To(Equal("/var/lib/tutor.db"))
			Expect(dotdir.ExpandHome("~other/db")).To(Equal("~other/db"))
			Expect(dotdir.ExpandHome("")).To(BeEmpty())
		})
	})
})
