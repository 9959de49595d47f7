package cheque

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		archive Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		archive, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("writes the file under the archive directory", func() {
			saved, err := archive.Save("1_cheque.jpg", []byte("image bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(saved).To(Equal("1_cheque.jpg"))
			Expect(filepath.Join(tmpDir, "1_cheque.jpg")).To(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := archive.Save("1_cheque.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns its contents", func() {
				data, err := archive.Get("1_cheque.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal([]byte("image bytes")))
			})
		})

		When("the file does not exist", func() {
			It("returns an error", func() {
				_, err := archive.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Find", func() {
		BeforeEach(func() {
			_, err := archive.Save("12_cheque.jpg", []byte("a"))
			Expect(err).NotTo(HaveOccurred())
			_, err = archive.Save("3_other.png", []byte("b"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("locates a file by its id prefix", func() {
			name, err := archive.Find("12_")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("12_cheque.jpg"))
		})

		It("does not confuse id prefixes", func() {
			name, err := archive.Find("3_")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("3_other.png"))
		})

		It("fails when nothing matches", func() {
			_, err := archive.Find("99_")
			Expect(err).To(HaveOccurred())
		})
	})
})
