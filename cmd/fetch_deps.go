package cmd

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"

	"sitebuild/pkg"
)

// vendorSpec describes one vendored frontend library listed in DEPS.yml.
type vendorSpec struct {
	URL    string
	Dest   string
	Sha256 string
	Strip  int
}

var fetchDepsCmd = &cobra.Command{
	Use:   "fetch-deps",
	Short: "Downloads and unpacks vendored frontend libraries",
	Long:  `Downloads and unpacks the libraries listed in DEPS.yml into their destination directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg.PrintTask("Loading config")
		root, err := pkg.GetProjectRoot()
		if err != nil {
			return err
		}

		deps, stamps, err := getVendorConfig(root)
		if err != nil {
			return err
		}

		pkg.PrintTask("Downloading dependencies")
		err = downloadAndExtract(deps, stamps, root)

		stampPath := filepath.Join(root, "DEPS.stamps")
		stampData, jErr := json.Marshal(stamps)
		if jErr != nil {
			pkg.PrintError(jErr.Error())
		}

		jErr = os.WriteFile(stampPath, stampData, os.FileMode(0660))
		if jErr != nil {
			pkg.PrintError(jErr.Error())
		}

		pkg.PrintTask("Done")

		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchDepsCmd)
}

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}

func getVendorConfig(projectRoot string) (map[string]vendorSpec, map[string]string, error) {
	cfgPath := filepath.Join(projectRoot, "DEPS.yml")
	cfgData, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "Could not open file %s.", cfgPath)
	}

	var deps map[string]vendorSpec
	err = yaml.Unmarshal(cfgData, &deps)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "Failed to parse %s.", cfgPath)
	}

	stamps := map[string]string{}
	stampPath := filepath.Join(projectRoot, "DEPS.stamps")
	stampData, err := os.ReadFile(stampPath)
	if err != nil {
		if !eris.Is(err, os.ErrNotExist) {
			return nil, nil, eris.Wrapf(err, "Failed to read stamps file %s.", stampPath)
		}
	} else {
		err = json.Unmarshal(stampData, &stamps)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "Failed to parse JSON file %s.", stampPath)
		}
	}

	return deps, stamps, nil
}

func downloadAndExtract(deps map[string]vendorSpec, stamps map[string]string, projectRoot string) error {
	client := &http.Client{
		Timeout: time.Minute * 30,
	}
	buf := make([]byte, 4096)

	for name, meta := range deps {
		destPath := filepath.Join(projectRoot, meta.Dest)
		_, err := os.Stat(destPath)
		destExists := err == nil

		stampToken := meta.URL + "#" + meta.Sha256
		stamp, ok := stamps[name]
		if ok && stampToken == stamp && destExists {
			continue
		}

		pkg.PrintSubtask(name + ":  " + meta.URL)
		if meta.Sha256 == "" {
			return eris.Errorf("Dependency %s doesn't have a checksum", name)
		}

		arHandle, err := os.CreateTemp("", "sitebuild-dl")
		if err != nil {
			return eris.Wrap(err, "Failed to create download file")
		}
		defer func() {
			arHandle.Close()
			os.Remove(arHandle.Name())
		}()

		resp, err := client.Get(meta.URL)
		if err != nil {
			return eris.Wrapf(err, "Failed to start download for %s", meta.URL)
		}
		defer resp.Body.Close()

		hash := sha256.New()
		bar := getProgressBar(resp.ContentLength, "     download")
		for {
			n, err := resp.Body.Read(buf)
			if err != nil && n < 1 {
				if err == io.EOF {
					break
				}
				return eris.Wrapf(err, "Failed during download of %s", meta.URL)
			}

			_, err = hash.Write(buf[:n])
			if err != nil {
				return eris.Wrapf(err, "Failed to calculate checksum for %s", meta.URL)
			}

			_, err = arHandle.Write(buf[:n])
			if err != nil {
				return eris.Wrap(err, "Failed to write download to temp file")
			}

			bar.Write(buf[:n])
		}
		bar.Finish()
		resp.Body.Close()

		digest := hex.EncodeToString(hash.Sum(nil))
		if digest != meta.Sha256 {
			return eris.Errorf("Checksum check failed for %s", name)
		}

		if destExists {
			err = os.RemoveAll(destPath)
			if err != nil {
				return eris.Wrapf(err, "Failed to remove old copy of %s", destPath)
			}
		}

		extractor, err := getExtractor(meta.URL)
		if err != nil {
			return err
		}

		_, err = arHandle.Seek(0, io.SeekStart)
		if err != nil {
			return eris.Wrap(err, "Failed to rewind download file")
		}

		bar = getProgressBar(resp.ContentLength, "      extract")
		err = extractor(arHandle, bar, projectRoot, meta)
		if err != nil {
			return err
		}

		stamps[name] = stampToken
	}

	return nil
}

type archiveExtractor func(*os.File, *progressbar.ProgressBar, string, vendorSpec) error

func openExtractorDest(destPath string, item string, vs vendorSpec) (*os.File, string, error) {
	// normalize the path and strip vs.Strip elements from the beginning
	pathParts := strings.Split(filepath.Clean(item), string(filepath.Separator))
	if len(pathParts) <= vs.Strip {
		return nil, "/", nil
	}

	dest := filepath.Join(destPath, strings.Join(pathParts[vs.Strip:], string(filepath.Separator)))
	if dest == destPath {
		return nil, "/", nil
	}

	destParent := filepath.Dir(dest)
	err := os.MkdirAll(destParent, os.FileMode(0770))
	if err != nil {
		return nil, "", eris.Wrapf(err, "Failed to create directory %s", destParent)
	}

	destHandle, err := os.Create(dest)
	if err != nil {
		return nil, "", eris.Wrapf(err, "Failed to create file %s", dest)
	}

	return destHandle, dest, nil
}

func getExtractor(url string) (archiveExtractor, error) {
	if strings.HasSuffix(url, ".zip") {
		return extractZip, nil
	}

	if strings.HasSuffix(url, ".tar.gz") {
		return func(f *os.File, bar *progressbar.ProgressBar, projectRoot string, vs vendorSpec) error {
			reader, err := gzip.NewReader(f)
			if err != nil {
				return err
			}
			defer reader.Close()

			return extractTar(reader, f, bar, projectRoot, vs)
		}, nil
	}

	if strings.HasSuffix(url, ".tar.bz2") {
		return func(f *os.File, bar *progressbar.ProgressBar, projectRoot string, vs vendorSpec) error {
			return extractTar(bzip2.NewReader(f), f, bar, projectRoot, vs)
		}, nil
	}

	if strings.HasSuffix(url, ".tar.xz") {
		return func(f *os.File, bar *progressbar.ProgressBar, projectRoot string, vs vendorSpec) error {
			reader, err := xz.NewReader(f)
			if err != nil {
				return err
			}

			return extractTar(reader, f, bar, projectRoot, vs)
		}, nil
	}

	return nil, eris.New("Archive format not supported")
}

func extractZip(f *os.File, bar *progressbar.ProgressBar, projectRoot string, vs vendorSpec) error {
	stat, err := f.Stat()
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(f, stat.Size())
	if err != nil {
		return err
	}

	destPath := filepath.Join(projectRoot, vs.Dest)
	for _, item := range archive.File {
		if strings.HasSuffix(item.Name, "/") {
			continue
		}

		destHandle, dest, err := openExtractorDest(destPath, item.Name, vs)
		if err != nil {
			return err
		}

		if destHandle == nil {
			continue
		}

		itemHandle, err := item.Open()
		if err != nil {
			destHandle.Close()
			return eris.Wrap(err, "Failed to open archive entry")
		}

		_, err = io.Copy(destHandle, itemHandle)
		itemHandle.Close()
		destHandle.Close()
		if err != nil {
			return eris.Wrapf(err, "Failed to write extracted file %s", dest)
		}

		pos, err := f.Seek(0, io.SeekCurrent)
		if err == nil {
			bar.Set64(pos)
		}
	}

	return nil
}

func extractTar(r io.Reader, f *os.File, bar *progressbar.ProgressBar, projectRoot string, vs vendorSpec) error {
	archive := tar.NewReader(r)
	destPath := filepath.Join(projectRoot, vs.Dest)

	for {
		item, err := archive.Next()
		if err != nil {
			if err == io.EOF {
				break
			}

			return eris.Wrap(err, "Failed to read archive entry")
		}

		fi := item.FileInfo()
		if fi.IsDir() {
			continue
		}

		destHandle, dest, err := openExtractorDest(destPath, item.Name, vs)
		if err != nil {
			return err
		}

		if destHandle == nil {
			continue
		}

		if item.Typeflag == tar.TypeSymlink {
			destHandle.Close()
			err := os.Remove(dest)
			if err != nil {
				return eris.Wrapf(err, "Failed to remove placeholder file %s", dest)
			}

			err = os.Symlink(item.Linkname, dest)
			if err != nil {
				return eris.Wrapf(err, "Failed to create symlink %s pointing to %s", dest, item.Linkname)
			}
			continue
		}

		os.Chmod(dest, fi.Mode())

		_, err = io.Copy(destHandle, archive)
		destHandle.Close()
		if err != nil {
			return eris.Wrapf(err, "Failed to write extracted file %s", dest)
		}

		pos, err := f.Seek(0, io.SeekCurrent)
		if err == nil {
			bar.Set64(pos)
		}
	}

	return nil
}
