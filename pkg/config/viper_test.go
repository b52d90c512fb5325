package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/config"
)

var _ = Describe("Keys", func() {
	It("lists every key in section order", func() {
		Expect(config.ValidConfigKeys()).To(Equal([]string{
			"storage.sqlite_path",
			"storage.postgres_dsn",
			"provider.name",
			"provider.model",
			"provider.upstream",
			"provider.api_key_env",
			"server.listen",
			"client.server_target",
			"course.language",
			"stream.max_retries",
			"eventstream.kafka_brokers",
			"eventstream.kafka_topic",
		}))
	})

	It("agrees with IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("embedding.model")).To(BeFalse())
	})

	It("reads and writes through Config", func() {
		cfg := config.NewDefaultConfig()
		Expect(cfg.SetValue("course.language", "Spanish")).To(Succeed())
		Expect(cfg.Course.Language).To(Equal("Spanish"))
		Expect(cfg.Value("stream.max_retries")).To(Equal("4"))
	})
})

var _ = Describe("InitViper", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(data string) {
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	It("seeds every key from the defaults", func() {
		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		for _, k := range config.ValidConfigKeys() {
			want, err := defaults.Value(k)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString(k)).To(Equal(want), k)
		}
		Expect(v.GetInt("stream.max_retries")).To(Equal(4))
	})

	It("reads config.toml over the defaults", func() {
		write("[provider]\nname = \"openai\"\n")

		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("provider.name")).To(Equal("openai"))
		Expect(v.GetString("server.listen")).To(Equal(":8787"))
	})

	It("lets TUTOR_ variables override config.toml", func() {
		write("[course]\nlanguage = \"German\"\n")
		GinkgoT().Setenv("TUTOR_COURSE_LANGUAGE", "French")

		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("course.language")).To(Equal("French"))
	})

	It("fails on a malformed config.toml", func() {
		write("[[[")

		_, err := config.InitViper(dir)
		Expect(err).To(MatchError(ContainSubstring("reading config")))
	})
})

var _ = Describe("Flag registry", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	listenCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		var listen string
		config.AddStringFlag(cmd, config.Flags, config.FlagListen, &listen)
		return cmd
	}

	It("lets a set flag win", func() {
		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())

		cmd := listenCmd()
		Expect(cmd.Flags().Set("listen", ":7777")).To(Succeed())
		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagListen})

		Expect(v.GetString("server.listen")).To(Equal(":7777"))
	})

	It("falls through to config.toml when the flag is unset", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server]\nlisten = \":5555\"\n"), 0o600)).To(Succeed())

		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())

		cmd := listenCmd()
		config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagListen})

		Expect(v.GetString("server.listen")).To(Equal(":5555"))
	})

	It("skips registry keys it does not know", func() {
		v, err := config.InitViper(dir)
		Expect(err).NotTo(HaveOccurred())

		config.BindRegisteredFlags(v, &cobra.Command{Use: "test"}, config.FlagSet{}, []string{"nonexistent"})
		Expect(v.GetString("server.listen")).To(Equal(":8787"))
	})

	It("takes name, shorthand and default from the registry", func() {
		cmd := &cobra.Command{Use: "test"}
		var model string
		var retries int
		config.AddStringFlag(cmd, config.Flags, config.FlagModel, &model)
		config.AddIntFlag(cmd, config.Flags, config.FlagMaxRetries, &retries)

		f := cmd.Flags().Lookup("model")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("m"))
		Expect(f.DefValue).To(Equal("gemini-2.5-flash"))

		f = cmd.Flags().Lookup("max-retries")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("4"))
	})
})
